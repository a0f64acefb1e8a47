// internal/valuation/estimator.go
package valuation

import (
	"fmt"
	"math"
)

// Input is the set of figures a visitor enters into the calculator.
type Input struct {
	AnnualRevenue       float64  `json:"annualRevenue"`
	ProfitMarginPercent float64  `json:"profitMargin"`
	AssetValue          float64  `json:"assetValue"`
	Industry            Industry `json:"industry"`
}

// Range is the recommended valuation band.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Result holds the three independent estimates and the band they span.
type Result struct {
	AssetBased       float64 `json:"assetBased"`
	MarketMultiple   float64 `json:"marketMultiple"`
	DCF              float64 `json:"dcf"`
	RecommendedRange Range   `json:"recommendedRange"`
}

// Estimator computes valuations under a fixed Policy.
type Estimator struct {
	policy Policy
}

// NewEstimator validates the policy and copies it so the caller can not mutate
// the table afterwards.
func NewEstimator(policy Policy) (*Estimator, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{policy: policy.clone()}, nil
}

var defaultEstimator = &Estimator{policy: DefaultPolicy()}

// Estimate runs the default policy.
func Estimate(in Input) (Result, error) {
	return defaultEstimator.Estimate(in)
}

// Policy returns a copy of the estimator's policy.
func (e *Estimator) Policy() Policy {
	return e.policy.clone()
}

// Estimate returns the asset-based, market-multiple and DCF figures for in.
// Non-finite inputs are not rejected; they flow through to the result.
func (e *Estimator) Estimate(in Input) (Result, error) {
	m, ok := e.policy.Multipliers[in.Industry]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownIndustry, in.Industry)
	}

	profit := in.AnnualRevenue * (in.ProfitMarginPercent / 100)

	assetBased := in.AssetValue

	revenueBased := in.AnnualRevenue * m.Revenue
	profitBased := profit * m.Profit
	marketMultiple := (revenueBased + profitBased) / 2

	dcf := e.discountedCashFlow(profit)

	return Result{
		AssetBased:     assetBased,
		MarketMultiple: marketMultiple,
		DCF:            dcf,
		RecommendedRange: Range{
			Min: jsMin(assetBased, marketMultiple, dcf),
			Max: jsMax(assetBased, marketMultiple, dcf),
		},
	}, nil
}

// discountedCashFlow sums the discounted profit of each forecast year and adds a
// Gordon-growth terminal value. The terminal value grows profit to year
// horizon+1 and discounts it back by horizon years.
func (e *Estimator) discountedCashFlow(profit float64) float64 {
	g := e.policy.GrowthRate
	d := e.policy.DiscountRate
	years := e.policy.HorizonYears

	value := 0.0
	for i := 1; i <= years; i++ {
		value += profit * math.Pow(1+g, float64(i)) / math.Pow(1+d, float64(i))
	}

	terminal := (profit * math.Pow(1+g, float64(years+1))) /
		(d - g) / math.Pow(1+d, float64(years))

	return value + terminal
}

// jsMin and jsMax fold any number of operands and return NaN as soon as one
// operand is NaN.
func jsMin(vals ...float64) float64 {
	out := math.Inf(1)
	for _, v := range vals {
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v < out {
			out = v
		}
	}
	return out
}

func jsMax(vals ...float64) float64 {
	out := math.Inf(-1)
	for _, v := range vals {
		if math.IsNaN(v) {
			return math.NaN()
		}
		if v > out {
			out = v
		}
	}
	return out
}
