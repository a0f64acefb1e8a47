// internal/valuation/parse_test.go
package valuation

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1000000", 1_000_000, true},
		{"  42.5", 42.5, true},
		{"12abc", 12, true},
		{"3.", 3, true},
		{".5", 0.5, true},
		{"-7", -7, true},
		{"+7", 7, true},
		{"1e3", 1000, true},
		{"1e", 1, true},
		{"2.5E-2x", 0.025, true},
		{"1,000", 1, true},
		{"Infinity", math.Inf(1), true},
		{"-Infinityx", math.Inf(-1), true},
		{"1e400", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseFloat(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFloat_NotNumeric(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "$100", ".", "-", "e5", "NaN", "infinity"} {
		t.Run(in, func(t *testing.T) {
			got, ok := ParseFloat(in)
			assert.False(t, ok)
			assert.True(t, math.IsNaN(got))
		})
	}
}

func TestParseForm_Valid(t *testing.T) {
	in, err := ParseForm("1000000", "20", "500000", " tech ")
	require.NoError(t, err)

	assert.Equal(t, Input{
		AnnualRevenue:       1_000_000,
		ProfitMarginPercent: 20,
		AssetValue:          500_000,
		Industry:            IndustryTech,
	}, in)
}

func TestParseForm_ReportsEveryBadField(t *testing.T) {
	in, err := ParseForm("lots", "20", "", "retail")
	require.Error(t, err)

	var parseErr *InputParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, []string{FieldAnnualRevenue, FieldAssetValue}, parseErr.Fields)
	assert.True(t, errors.Is(err, ErrInvalidNumericInput))
	assert.Contains(t, err.Error(), "annualRevenue, assetValue")

	assert.True(t, math.IsNaN(in.AnnualRevenue))
	assert.Equal(t, 20.0, in.ProfitMarginPercent)
	assert.True(t, math.IsNaN(in.AssetValue))
	assert.Equal(t, IndustryRetail, in.Industry)
}

func TestParseForm_NaNFlowsIntoEstimate(t *testing.T) {
	in, err := ParseForm("1000000", "twenty", "500000", "tech")
	require.Error(t, err)

	res, err := Estimate(in)
	require.NoError(t, err)
	assert.Equal(t, 500_000.0, res.AssetBased)
	assert.True(t, math.IsNaN(res.MarketMultiple))
	assert.True(t, math.IsNaN(res.DCF))
}
