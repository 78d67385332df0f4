package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// QuoteConfig is the reference data driving the quote engine: plans, add-ons
// and the discount codes accepted at checkout.
type QuoteConfig struct {
	Plans         []PlanConfig         `mapstructure:"plans"`
	AddOns        []AddOnConfig        `mapstructure:"addons"`
	DiscountCodes []DiscountCodeConfig `mapstructure:"discountCodes"`
}

type PlanConfig struct {
	ID           string   `mapstructure:"id"`
	Name         string   `mapstructure:"name"`
	MonthlyPrice int64    `mapstructure:"monthlyPrice"`
	YearlyPrice  int64    `mapstructure:"yearlyPrice"`
	Features     []string `mapstructure:"features"`
}

type AddOnConfig struct {
	ID    string   `mapstructure:"id"`
	Name  string   `mapstructure:"name"`
	Price int64    `mapstructure:"price"`
	Mode  string   `mapstructure:"mode"`
	Unit  string   `mapstructure:"unit"`
	Plans []string `mapstructure:"plans"`
}

type DiscountCodeConfig struct {
	Code    string `mapstructure:"code"`
	Percent int    `mapstructure:"percent"`
}

const (
	AddOnModeRecurring = "recurring"
	AddOnModeOneTime   = "one_time"
)

// PlanIDs lists the plan tiers from entry to highest.
var PlanIDs = []string{"starter", "business", "enterprise"}

func DefaultQuoteConfig() QuoteConfig {
	return QuoteConfig{
		Plans: []PlanConfig{
			{
				ID:           "starter",
				Name:         "Starter",
				MonthlyPrice: 1_500_000,
				YearlyPrice:  1_250_000,
				Features: []string{
					"Up to 3 core modules",
					"Cloud hosting",
					"Email support",
					"Standard reports",
				},
			},
			{
				ID:           "business",
				Name:         "Business",
				MonthlyPrice: 3_500_000,
				YearlyPrice:  2_900_000,
				Features: []string{
					"All core modules",
					"Multi-location operations",
					"API access",
					"Priority email and chat support",
					"Advanced reports",
				},
			},
			{
				ID:           "enterprise",
				Name:         "Enterprise",
				MonthlyPrice: 7_500_000,
				YearlyPrice:  6_250_000,
				Features: []string{
					"Unlimited modules",
					"Dedicated or on-premise deployment",
					"Custom module development",
					"Dedicated account manager",
					"99.9% uptime SLA",
				},
			},
		},
		AddOns: []AddOnConfig{
			{ID: "impl_standard", Name: "Standard Implementation", Price: 5_000_000, Mode: AddOnModeOneTime, Unit: "one-time package"},
			{ID: "impl_pro", Name: "Professional Implementation", Price: 12_000_000, Mode: AddOnModeOneTime, Unit: "one-time package", Plans: []string{"business", "enterprise"}},
			{ID: "impl_express", Name: "Express Implementation", Price: 20_000_000, Mode: AddOnModeOneTime, Unit: "one-time package"},
			{ID: "dedicated_ip", Name: "Dedicated IP", Price: 250_000, Mode: AddOnModeRecurring, Unit: "per month", Plans: []string{"business", "enterprise"}},
			{ID: "extra_storage", Name: "Extra Storage (50 GB)", Price: 100_000, Mode: AddOnModeRecurring, Unit: "per 50 GB / month"},
			{ID: "data_migration", Name: "Data Migration", Price: 7_500_000, Mode: AddOnModeOneTime, Unit: "one-time"},
			{ID: "api_integration", Name: "API Integration", Price: 1_500_000, Mode: AddOnModeOneTime, Unit: "per integration", Plans: []string{"business", "enterprise"}},
			{ID: "custom_report", Name: "Custom Report", Price: 750_000, Mode: AddOnModeOneTime, Unit: "per report"},
			{ID: "training", Name: "On-site Training", Price: 500_000, Mode: AddOnModeOneTime, Unit: "per session"},
			{ID: "priority_support", Name: "Priority Support", Price: 1_000_000, Mode: AddOnModeRecurring, Unit: "per month"},
		},
		DiscountCodes: []DiscountCodeConfig{
			{Code: "BIZOPS10", Percent: 10},
			{Code: "PARTNER20", Percent: 20},
		},
	}
}

type QuoteConfigHolder struct {
	current atomic.Value // holds QuoteConfig
}

// NewStaticQuoteConfigHolder returns a holder pinned to cfg without file watching.
func NewStaticQuoteConfigHolder(cfg QuoteConfig) *QuoteConfigHolder {
	holder := &QuoteConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewQuoteConfigHolder(log *zap.Logger) (*QuoteConfigHolder, error) {
	v := viper.New()

	if path := strings.TrimSpace(os.Getenv("QUOTE_CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quote")
		v.SetConfigType("yml")
		v.AddConfigPath("/etc/quoteflow")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("QUOTEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return newQuoteConfigHolder(v, log)
}

func newQuoteConfigHolder(v *viper.Viper, log *zap.Logger) (*QuoteConfigHolder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("quote.config")

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		watch = false
		log.Info("quote config file not found, using defaults")
	}

	defaults := DefaultQuoteConfig()
	v.SetDefault("quote.plans", defaults.Plans)
	v.SetDefault("quote.addons", defaults.AddOns)
	v.SetDefault("quote.discountCodes", defaults.DiscountCodes)

	cfg, err := decodeQuoteConfig(v)
	if err != nil {
		return nil, err
	}

	holder := NewStaticQuoteConfigHolder(cfg)
	if !watch {
		return holder, nil
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeQuoteConfig(v)
		if err != nil {
			log.Warn("invalid quote config ignored", zap.String("file", e.Name), zap.Error(err))
			return
		}
		holder.current.Store(updated)
		log.Info("quote config reloaded", zap.String("file", e.Name))
	})
	v.WatchConfig()

	return holder, nil
}

func decodeQuoteConfig(v *viper.Viper) (QuoteConfig, error) {
	var cfg QuoteConfig
	if err := v.UnmarshalKey("quote.plans", &cfg.Plans); err != nil {
		return QuoteConfig{}, err
	}
	if err := v.UnmarshalKey("quote.addons", &cfg.AddOns); err != nil {
		return QuoteConfig{}, err
	}
	if err := v.UnmarshalKey("quote.discountCodes", &cfg.DiscountCodes); err != nil {
		return QuoteConfig{}, err
	}
	if err := ValidateQuoteConfig(cfg); err != nil {
		return QuoteConfig{}, err
	}
	return cfg, nil
}

func (h *QuoteConfigHolder) Get() QuoteConfig {
	return h.current.Load().(QuoteConfig)
}

func ValidateQuoteConfig(cfg QuoteConfig) error {
	if len(cfg.Plans) != len(PlanIDs) {
		return fmt.Errorf("quote.plans must define exactly %d plans", len(PlanIDs))
	}
	known := make(map[string]struct{}, len(cfg.Plans))
	for i, plan := range cfg.Plans {
		if plan.ID != PlanIDs[i] {
			return fmt.Errorf("quote.plans[%d] must be %q, got %q", i, PlanIDs[i], plan.ID)
		}
		if plan.MonthlyPrice < 0 || plan.YearlyPrice < 0 {
			return fmt.Errorf("quote.plans[%d] price cannot be negative", i)
		}
		known[plan.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(cfg.AddOns))
	for i, addOn := range cfg.AddOns {
		id := strings.TrimSpace(addOn.ID)
		if id == "" {
			return fmt.Errorf("quote.addons[%d].id is required", i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("quote.addons[%d].id %q is duplicated", i, id)
		}
		seen[id] = struct{}{}
		if addOn.Price < 0 {
			return fmt.Errorf("quote.addons[%d].price cannot be negative", i)
		}
		switch addOn.Mode {
		case AddOnModeRecurring, AddOnModeOneTime:
		default:
			return fmt.Errorf("quote.addons[%d].mode %q is invalid", i, addOn.Mode)
		}
		for _, planID := range addOn.Plans {
			if _, ok := known[planID]; !ok {
				return fmt.Errorf("quote.addons[%d] references unknown plan %q", i, planID)
			}
		}
	}

	codes := make(map[string]struct{}, len(cfg.DiscountCodes))
	for i, dc := range cfg.DiscountCodes {
		code := strings.ToUpper(strings.TrimSpace(dc.Code))
		if code == "" {
			return fmt.Errorf("quote.discountCodes[%d].code is required", i)
		}
		if _, dup := codes[code]; dup {
			return fmt.Errorf("quote.discountCodes[%d].code %q is duplicated", i, dc.Code)
		}
		codes[code] = struct{}{}
		if dc.Percent <= 0 || dc.Percent > 100 {
			return fmt.Errorf("quote.discountCodes[%d].percent must be within 1..100", i)
		}
	}
	return nil
}
