package service

import (
	"github.com/smallbiznis/quoteflow/internal/catalog/domain"
	"github.com/smallbiznis/quoteflow/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Holder *config.QuoteConfigHolder
	Log    *zap.Logger
}

type Service struct {
	currency string
	holder   *config.QuoteConfigHolder
	log      *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		currency: p.Config.Currency,
		holder:   p.Holder,
		log:      p.Log.Named("catalog.service"),
	}
}

func (s *Service) Current() *domain.Catalog {
	return FromConfig(s.currency, s.holder.Get())
}

// FromConfig converts validated quote configuration into a catalog snapshot.
func FromConfig(currency string, cfg config.QuoteConfig) *domain.Catalog {
	plans := make([]domain.Plan, 0, len(cfg.Plans))
	for _, p := range cfg.Plans {
		plans = append(plans, domain.Plan{
			ID:           domain.PlanID(p.ID),
			Name:         p.Name,
			MonthlyPrice: p.MonthlyPrice,
			YearlyPrice:  p.YearlyPrice,
			Features:     append([]string(nil), p.Features...),
		})
	}

	addOns := make([]domain.AddOn, 0, len(cfg.AddOns))
	for _, a := range cfg.AddOns {
		mode := domain.Recurring
		if a.Mode == config.AddOnModeOneTime {
			mode = domain.OneTime
		}
		var eligible []domain.PlanID
		for _, id := range a.Plans {
			eligible = append(eligible, domain.PlanID(id))
		}
		addOns = append(addOns, domain.AddOn{
			ID:            a.ID,
			Name:          a.Name,
			UnitPrice:     a.Price,
			PricingMode:   mode,
			Unit:          a.Unit,
			EligiblePlans: eligible,
		})
	}

	return domain.NewCatalog(currency, plans, addOns)
}

// Default returns the built-in catalog.
func Default() *domain.Catalog {
	return FromConfig("IDR", config.DefaultQuoteConfig())
}
