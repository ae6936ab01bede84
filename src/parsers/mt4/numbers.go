package mt4

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseDecimal reads a broker amount such as "1 234.50", "-12,5" or "+3.00".
// Space and comma thousand separators are dropped; a lone comma is a decimal point.
func parseDecimal(s string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		}
		return r
	}, s)
	if strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}
	cleaned = strings.TrimPrefix(cleaned, "+")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseNumber is parseDecimal with a zero default.
func parseNumber(s string) float64 {
	d, _ := parseDecimal(s)
	return d.InexactFloat64()
}

// sum adds broker amounts without accumulating binary floating point error.
func sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}
