// internal/valuation/parse.go
package valuation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var ErrInvalidNumericInput = errors.New("INVALID_NUMERIC_INPUT")

// InputParseError lists the form fields whose text was not numeric. The
// corresponding Input fields hold NaN.
type InputParseError struct {
	Fields []string
}

func (e *InputParseError) Error() string {
	return fmt.Sprintf("invalid numeric input: %s", strings.Join(e.Fields, ", "))
}

func (e *InputParseError) Unwrap() error {
	return ErrInvalidNumericInput
}

// Form field names, as posted by the calculator.
const (
	FieldAnnualRevenue = "annualRevenue"
	FieldProfitMargin  = "profitMargin"
	FieldAssetValue    = "assetValue"
)

var numericPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseForm converts raw calculator fields into an Input. Numbers are read the
// way a browser's parseFloat reads them: leading whitespace is skipped and the
// longest numeric prefix wins, so "12abc" is 12. Unparseable fields become NaN
// and are reported through *InputParseError; the Input is returned either way.
func ParseForm(revenue, margin, assets, industry string) (Input, error) {
	in := Input{Industry: Industry(strings.TrimSpace(industry))}

	var bad []string
	var ok bool
	if in.AnnualRevenue, ok = ParseFloat(revenue); !ok {
		bad = append(bad, FieldAnnualRevenue)
	}
	if in.ProfitMarginPercent, ok = ParseFloat(margin); !ok {
		bad = append(bad, FieldProfitMargin)
	}
	if in.AssetValue, ok = ParseFloat(assets); !ok {
		bad = append(bad, FieldAssetValue)
	}

	if len(bad) > 0 {
		return in, &InputParseError{Fields: bad}
	}
	return in, nil
}

// ParseFloat returns NaN and false when s has no numeric prefix.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := numericPrefix.FindString(s)
	if m == "" {
		return math.NaN(), false
	}

	switch m {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		// out of range values saturate to ±Inf, matching parseFloat
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return v, true
		}
		return math.NaN(), false
	}
	return v, true
}
