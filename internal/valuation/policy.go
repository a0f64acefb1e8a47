// internal/valuation/policy.go
package valuation

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Industry selects the multiplier row used by the market-multiple method.
type Industry string

const (
	IndustryTech          Industry = "tech"
	IndustryRetail        Industry = "retail"
	IndustryManufacturing Industry = "manufacturing"
	IndustryServices      Industry = "services"
)

var (
	ErrUnknownIndustry = errors.New("UNKNOWN_INDUSTRY")
	ErrInvalidPolicy   = errors.New("INVALID_POLICY")
)

// Multiplier holds the revenue and profit factors for one industry.
type Multiplier struct {
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// Policy is the fixed configuration an Estimator computes with.
type Policy struct {
	Multipliers  map[Industry]Multiplier `json:"multipliers"`
	GrowthRate   float64                 `json:"growthRate"`
	DiscountRate float64                 `json:"discountRate"`
	HorizonYears int                     `json:"horizonYears"`
}

// DefaultPolicy returns the quick-estimate policy: four industries, 5% growth,
// 10% discount rate, five year horizon. Each call returns a fresh copy.
func DefaultPolicy() Policy {
	return Policy{
		Multipliers: map[Industry]Multiplier{
			IndustryTech:          {Revenue: 3.5, Profit: 15.0},
			IndustryRetail:        {Revenue: 0.8, Profit: 8.0},
			IndustryManufacturing: {Revenue: 1.2, Profit: 10.0},
			IndustryServices:      {Revenue: 1.5, Profit: 12.0},
		},
		GrowthRate:   0.05,
		DiscountRate: 0.10,
		HorizonYears: 5,
	}
}

// Validate reports whether the policy can produce finite estimates.
func (p Policy) Validate() error {
	if len(p.Multipliers) == 0 {
		return fmt.Errorf("%w: no industry multipliers", ErrInvalidPolicy)
	}
	for industry, m := range p.Multipliers {
		if industry == "" {
			return fmt.Errorf("%w: empty industry name", ErrInvalidPolicy)
		}
		if !isFinite(m.Revenue) || !isFinite(m.Profit) {
			return fmt.Errorf("%w: non-finite multiplier for %s", ErrInvalidPolicy, industry)
		}
	}
	if !isFinite(p.GrowthRate) || !isFinite(p.DiscountRate) {
		return fmt.Errorf("%w: non-finite growth or discount rate", ErrInvalidPolicy)
	}
	if p.DiscountRate <= p.GrowthRate {
		return fmt.Errorf("%w: discount rate %.4f must exceed growth rate %.4f",
			ErrInvalidPolicy, p.DiscountRate, p.GrowthRate)
	}
	if p.HorizonYears < 1 {
		return fmt.Errorf("%w: horizon must be at least one year", ErrInvalidPolicy)
	}
	return nil
}

// Industries lists the industries covered by the policy in sorted order.
func (p Policy) Industries() []Industry {
	out := make([]Industry, 0, len(p.Multipliers))
	for industry := range p.Multipliers {
		out = append(out, industry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (p Policy) clone() Policy {
	cp := p
	cp.Multipliers = make(map[Industry]Multiplier, len(p.Multipliers))
	for k, v := range p.Multipliers {
		cp.Multipliers[k] = v
	}
	return cp
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
