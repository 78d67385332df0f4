package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestQuoteConfigDefaultsWhenFileMissing(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.yml"))

	holder, err := newQuoteConfigHolder(v, zap.NewNop())
	require.NoError(t, err)

	cfg := holder.Get()
	require.Len(t, cfg.Plans, 3)
	assert.Equal(t, "starter", cfg.Plans[0].ID)
	assert.Equal(t, int64(1_500_000), cfg.Plans[0].MonthlyPrice)
	assert.Len(t, cfg.AddOns, len(DefaultQuoteConfig().AddOns))
	assert.Len(t, cfg.DiscountCodes, 2)
}

func TestQuoteConfigOverridesDiscountCodesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.yml")
	body := `
quote:
  discountCodes:
    - code: LAUNCH15
      percent: 15
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	holder, err := newQuoteConfigHolder(v, zap.NewNop())
	require.NoError(t, err)

	cfg := holder.Get()
	require.Len(t, cfg.DiscountCodes, 1)
	assert.Equal(t, "LAUNCH15", cfg.DiscountCodes[0].Code)
	assert.Equal(t, 15, cfg.DiscountCodes[0].Percent)
	assert.Len(t, cfg.Plans, 3)
}

func TestValidateQuoteConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*QuoteConfig)
	}{
		{
			name:   "plan order",
			mutate: func(c *QuoteConfig) { c.Plans[0], c.Plans[1] = c.Plans[1], c.Plans[0] },
		},
		{
			name:   "missing plan",
			mutate: func(c *QuoteConfig) { c.Plans = c.Plans[:2] },
		},
		{
			name:   "bad addon mode",
			mutate: func(c *QuoteConfig) { c.AddOns[0].Mode = "per seat" },
		},
		{
			name:   "unknown eligible plan",
			mutate: func(c *QuoteConfig) { c.AddOns[0].Plans = []string{"platinum"} },
		},
		{
			name:   "duplicate discount code",
			mutate: func(c *QuoteConfig) { c.DiscountCodes[1].Code = "bizops10" },
		},
		{
			name:   "discount over 100",
			mutate: func(c *QuoteConfig) { c.DiscountCodes[0].Percent = 101 },
		},
	}

	require.NoError(t, ValidateQuoteConfig(DefaultQuoteConfig()))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultQuoteConfig()
			tc.mutate(&cfg)
			assert.Error(t, ValidateQuoteConfig(cfg))
		})
	}
}
