// internal/followup/describe.go
package followup

import (
	"fmt"
	"strings"

	"valuation-leads/internal/models"
	"valuation-leads/internal/valuation"
)

// summary renders the lead as plain text for e-mail bodies and CRM notes.
func summary(enquiryID string, rec *models.LeadRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Enquiry: %s\n", enquiryID)
	fmt.Fprintf(&b, "Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Email: %s\n", rec.Email)
	fmt.Fprintf(&b, "Phone: %s\n", rec.Phone)
	fmt.Fprintf(&b, "Company: %s\n", rec.CompanyName)
	fmt.Fprintf(&b, "Industry: %s\n", orDash(rec.Industry))
	fmt.Fprintf(&b, "Annual revenue: %s\n", money(rec.AnnualRevenue))
	fmt.Fprintf(&b, "Profit margin: %s\n", percent(rec.ProfitMargin))
	fmt.Fprintf(&b, "Asset value: %s\n", money(rec.AssetValue))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Asset-based valuation: %s\n", money(rec.CalculatedAssetBased))
	fmt.Fprintf(&b, "Market multiple valuation: %s\n", money(rec.CalculatedMarketMultiple))
	fmt.Fprintf(&b, "DCF valuation: %s\n", money(rec.CalculatedDCF))
	return b.String()
}

func money(v *float64) string {
	if v == nil {
		return "-"
	}
	return valuation.FormatCurrency(*v)
}

func percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g%%", *v)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// splitName returns first and last name. A single word is the last name.
func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}
