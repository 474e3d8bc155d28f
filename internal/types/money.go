// README: Money presentation helpers shared by pricing, notifications and HTTP responses.
package types

import "github.com/shopspring/decimal"

const Currency = "USD"

// Cents rounds half-up to two decimal places. Pricing keeps full precision and
// only rounds here, when a value is about to be shown to someone.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatUSD renders d as "$1,234.56".
func FormatUSD(d decimal.Decimal) string {
	s := Cents(d).StringFixed(2)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac := s[:len(s)-3], s[len(s)-3:]
	out := make([]byte, 0, len(s)+len(whole)/3+2)
	for i := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	prefix := "$"
	if neg {
		prefix = "-$"
	}
	return prefix + string(out) + frac
}

// Float returns d as a float64 without rounding, for JSON fields that carry
// the unrounded value.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
