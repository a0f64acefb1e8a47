// internal/handlers/submit-enquiry/models.go
package submitenquiry

import "valuation-leads/internal/models"

const SuccessMessage = "Enquiry submitted successfully"

type Output struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BuildRecord flattens an enquiry into the row that gets stored. Calculator
// inputs that are absent, null, zero or empty are stored as NULL; result
// figures are stored as received.
func BuildRecord(e *models.Enquiry) *models.LeadRecord {
	rec := &models.LeadRecord{
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		CompanyName: e.CompanyName,
	}

	if cd := e.CalculationData; cd != nil {
		rec.AnnualRevenue = nonZero(cd.Revenue)
		rec.ProfitMargin = nonZero(cd.ProfitMargin)
		rec.AssetValue = nonZero(cd.AssetValue)
		rec.Industry = nonEmpty(cd.Industry)
	}

	if r := e.Result; r != nil {
		rec.CalculatedAssetBased = r.AssetBased
		rec.CalculatedMarketMultiple = r.MarketMultiple
		rec.CalculatedDCF = r.DCF
	}

	return rec
}

func nonZero(v *float64) *float64 {
	if v == nil || *v == 0 || *v != *v {
		return nil
	}
	return v
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// missingFields lists contact fields that are empty, in form order.
func missingFields(c models.Contact) []string {
	var missing []string
	if c.Name == "" {
		missing = append(missing, "name")
	}
	if c.Email == "" {
		missing = append(missing, "email")
	}
	if c.Phone == "" {
		missing = append(missing, "phone")
	}
	if c.CompanyName == "" {
		missing = append(missing, "companyName")
	}
	return missing
}
