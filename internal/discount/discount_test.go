package discount

import (
	"testing"

	"github.com/smallbiznis/quoteflow/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupIgnoresCaseAndSurroundingSpace(t *testing.T) {
	reg := NewRegistry(Params{Holder: config.NewStaticQuoteConfigHolder(config.DefaultQuoteConfig())})

	for _, code := range []string{"BIZOPS10", "bizops10", "BizOps10", "  bizops10 "} {
		d, err := reg.Lookup(code)
		require.NoError(t, err, code)
		assert.Equal(t, "BIZOPS10", d.Code)
		assert.Equal(t, 10, d.Percent)
	}

	d, err := reg.Lookup("partner20")
	require.NoError(t, err)
	assert.Equal(t, 20, d.Percent)
}

func TestLookupRejectsUnknownCodes(t *testing.T) {
	reg := NewRegistry(Params{Holder: config.NewStaticQuoteConfigHolder(config.DefaultQuoteConfig())})

	for _, code := range []string{"", "   ", "BIZOPS", "BIZOPS100", "BIZ OPS10", "XBIZOPS10"} {
		_, err := reg.Lookup(code)
		assert.ErrorIs(t, err, ErrInvalidCode, code)
	}
}

func TestStaticRegistry(t *testing.T) {
	reg := NewStaticRegistry([]config.DiscountCodeConfig{{Code: "Launch5", Percent: 5}})

	d, err := reg.Lookup("LAUNCH5")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Percent)

	_, err = reg.Lookup("BIZOPS10")
	assert.ErrorIs(t, err, ErrInvalidCode)
}
