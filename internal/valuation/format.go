// internal/valuation/format.go
package valuation

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders v as whole US dollars with thousands separators,
// e.g. $3,250,000 or -$1,200. Non-finite values print as $NaN and $∞.
func FormatCurrency(v float64) string {
	switch {
	case math.IsNaN(v):
		return "$NaN"
	case math.IsInf(v, 1):
		return "$∞"
	case math.IsInf(v, -1):
		return "-$∞"
	}

	rounded := math.Round(v)
	if rounded < 0 {
		return usd.Sprintf("-$%.0f", -rounded)
	}
	// math.Round(-0.4) is -0, which must not print a sign
	return usd.Sprintf("$%.0f", math.Abs(rounded))
}
