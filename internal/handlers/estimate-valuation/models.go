// internal/handlers/estimate-valuation/models.go
package estimatevaluation

import (
	"bytes"
	"encoding/json"

	"valuation-leads/internal/valuation"
)

// NumericText holds a figure posted either as a JSON number or as the raw
// text of a form field.
type NumericText string

func (n *NumericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericText(s)
		return nil
	}
	*n = NumericText(data)
	return nil
}

type Input struct {
	AnnualRevenue NumericText `json:"annualRevenue"`
	ProfitMargin  NumericText `json:"profitMargin"`
	AssetValue    NumericText `json:"assetValue"`
	Industry      string      `json:"industry"`
}

type Output = valuation.Result
