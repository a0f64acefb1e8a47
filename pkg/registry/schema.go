// pkg/registry/schema.go
package registry

// PolicyFile is the on-disk form of a valuation policy.
type PolicyFile struct {
	Version      string          `json:"version"`
	LastUpdated  string          `json:"lastUpdated"`
	Industries   []IndustryEntry `json:"industries"`
	GrowthRate   float64         `json:"growthRate"`
	DiscountRate float64         `json:"discountRate"`
	HorizonYears int             `json:"horizonYears"`
}

// IndustryEntry is one row of the multiplier table.
type IndustryEntry struct {
	ID              string  `json:"id"`
	DisplayName     string  `json:"displayName"`
	RevenueMultiple float64 `json:"revenueMultiple"`
	ProfitMultiple  float64 `json:"profitMultiple"`
}
