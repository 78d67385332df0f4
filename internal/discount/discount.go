// Package discount resolves free-text discount codes against the configured
// code table.
package discount

import (
	"errors"
	"strings"

	"github.com/smallbiznis/quoteflow/internal/config"
	pricingdomain "github.com/smallbiznis/quoteflow/internal/pricing/domain"
	"go.uber.org/fx"
)

var ErrInvalidCode = errors.New("invalid_discount_code")

type Params struct {
	fx.In

	Holder *config.QuoteConfigHolder
}

// Registry matches codes exactly, ignoring case and surrounding whitespace.
// It reads the holder on every lookup so reloaded codes apply immediately.
type Registry struct {
	holder *config.QuoteConfigHolder
}

func NewRegistry(p Params) *Registry {
	return &Registry{holder: p.Holder}
}

// NewStaticRegistry serves a fixed code table.
func NewStaticRegistry(codes []config.DiscountCodeConfig) *Registry {
	cfg := config.DefaultQuoteConfig()
	cfg.DiscountCodes = codes
	return &Registry{holder: config.NewStaticQuoteConfigHolder(cfg)}
}

// Lookup matches code against the table ignoring case and surrounding
// whitespace, so " bizops10 " resolves to BIZOPS10.
func (r *Registry) Lookup(code string) (pricingdomain.Discount, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return pricingdomain.Discount{}, ErrInvalidCode
	}
	for _, dc := range r.holder.Get().DiscountCodes {
		if strings.ToUpper(strings.TrimSpace(dc.Code)) == normalized {
			return pricingdomain.Discount{Code: normalized, Percent: dc.Percent}, nil
		}
	}
	return pricingdomain.Discount{}, ErrInvalidCode
}

var Module = fx.Module("discount",
	fx.Provide(NewRegistry),
)
