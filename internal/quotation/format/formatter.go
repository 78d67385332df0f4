package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	randPadRe = regexp.MustCompile(`\{RAND(\d+)\}`)
)

const DefaultQuotationIDTemplate = "QT-{YYYY}{RAND4}"

// FormatQuotationID renders a quotation id from a template, the issue time
// and a random suffix.
//
// This function is PURE and deterministic for a given suffix.
func FormatQuotationID(
	template string,
	issuedAt time.Time,
	suffix int,
) (string, error) {

	if template == "" {
		return "", fmt.Errorf("quotation id template is empty")
	}

	if suffix < 0 {
		return "", fmt.Errorf("invalid quotation id suffix: %d", suffix)
	}

	out := template

	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))

	var widthErr error
	out = randPadRe.ReplaceAllStringFunc(out, func(m string) string {
		match := randPadRe.FindStringSubmatch(m)
		if len(match) != 2 {
			return m
		}

		width, err := strconv.Atoi(match[1])
		if err != nil || width <= 0 {
			return m
		}

		digits := fmt.Sprintf("%0*d", width, suffix)
		if len(digits) != width {
			widthErr = fmt.Errorf("suffix %d does not fit %d digits", suffix, width)
			return m
		}
		return digits
	})
	if widthErr != nil {
		return "", widthErr
	}

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in quotation id format: %s", out)
	}

	return out, nil
}

// SuffixRange returns the inclusive bounds of a random suffix that always
// renders with exactly width digits and no leading zero.
func SuffixRange(width int) (int, int) {
	if width <= 0 {
		return 0, 0
	}
	lo := 1
	for i := 1; i < width; i++ {
		lo *= 10
	}
	return lo, lo*10 - 1
}
