package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatQuotationID(t *testing.T) {
	issued := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

	id, err := FormatQuotationID(DefaultQuotationIDTemplate, issued, 4821)
	require.NoError(t, err)
	assert.Equal(t, "QT-20264821", id)

	id, err = FormatQuotationID("Q{YY}{MM}-{RAND6}", issued, 42)
	require.NoError(t, err)
	assert.Equal(t, "Q2610-000042", id)
}

func TestFormatQuotationIDErrors(t *testing.T) {
	issued := time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

	_, err := FormatQuotationID("", issued, 1000)
	assert.Error(t, err)

	_, err = FormatQuotationID(DefaultQuotationIDTemplate, issued, -1)
	assert.Error(t, err)

	_, err = FormatQuotationID(DefaultQuotationIDTemplate, issued, 12345)
	assert.Error(t, err)

	_, err = FormatQuotationID("QT-{YYYY}{SEQ}", issued, 1000)
	assert.Error(t, err)
}

func TestSuffixRange(t *testing.T) {
	lo, hi := SuffixRange(4)
	assert.Equal(t, 1000, lo)
	assert.Equal(t, 9999, hi)

	lo, hi = SuffixRange(1)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 9, hi)
}
