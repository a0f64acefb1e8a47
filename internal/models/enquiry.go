// internal/models/enquiry.go
package models

// Contact is the lead's contact details captured before results are shown.
type Contact struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
}

// CalculationData echoes the calculator input. Browsers serialise NaN as null,
// so every field is nullable.
type CalculationData struct {
	Revenue      *float64 `json:"revenue"`
	ProfitMargin *float64 `json:"profitMargin"`
	AssetValue   *float64 `json:"assetValue"`
	Industry     *string  `json:"industry"`
}

// RangeEcho is the recommended range as shown to the visitor.
type RangeEcho struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// ResultEcho echoes the estimator output.
type ResultEcho struct {
	AssetBased       *float64   `json:"assetBased"`
	MarketMultiple   *float64   `json:"marketMultiple"`
	DCF              *float64   `json:"dcf"`
	RecommendedRange *RangeEcho `json:"recommendedRange,omitempty"`
}

// Enquiry is the body posted to the submission endpoint.
type Enquiry struct {
	Contact
	CalculationData *CalculationData `json:"calculationData"`
	Result          *ResultEcho      `json:"result"`
}

// LeadRecord is one row of the enquiries table. Nil pointers are stored as NULL.
type LeadRecord struct {
	Name                     string   `json:"name"`
	Email                    string   `json:"email"`
	Phone                    string   `json:"phone"`
	CompanyName              string   `json:"companyName"`
	AnnualRevenue            *float64 `json:"annualRevenue"`
	ProfitMargin             *float64 `json:"profitMargin"`
	AssetValue               *float64 `json:"assetValue"`
	Industry                 *string  `json:"industry"`
	CalculatedAssetBased     *float64 `json:"calculatedAssetBased"`
	CalculatedMarketMultiple *float64 `json:"calculatedMarketMultiple"`
	CalculatedDCF            *float64 `json:"calculatedDcf"`
}

// Float64Ptr is a convenience for building optional numeric fields.
func Float64Ptr(v float64) *float64 {
	return &v
}

// StringPtr is a convenience for building optional string fields.
func StringPtr(s string) *string {
	return &s
}
