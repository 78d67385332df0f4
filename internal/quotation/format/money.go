package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders amount with the currency code and thousands
// separators. Fractions are shown to two places only when present.
func FormatMoney(amount decimal.Decimal, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "IDR"
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	places := int32(0)
	if !amount.Equal(amount.Truncate(0)) {
		places = 2
	}
	fixed := amount.StringFixed(places)
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := currency + " " + sign + b.String()
	if frac != "" {
		out += "." + frac
	}
	return out
}
