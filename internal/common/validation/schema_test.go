// internal/common/validation/schema_test.go
package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnquirySchema(t *testing.T) {
	schema := MustLoad(SchemaEnquiry)

	tests := []struct {
		name      string
		body      string
		valid     bool
		badFields []string
	}{
		{
			name: "full enquiry",
			body: `{"name":"Jane","email":"jane@example.com","phone":"555","companyName":"Acme",
				"calculationData":{"revenue":1000000,"profitMargin":20,"assetValue":500000,"industry":"tech"},
				"result":{"assetBased":500000,"marketMultiple":3250000,"dcf":4200000,"recommendedRange":{"min":500000,"max":4200000}}}`,
			valid: true,
		},
		{name: "missing contact fields are not a schema error", body: `{"name":"Jane"}`, valid: true},
		{name: "null numerics from NaN", body: `{"calculationData":{"revenue":null},"result":{"dcf":null}}`, valid: true},
		{name: "absent blocks", body: `{}`, valid: true},
		{name: "extra fields tolerated", body: `{"utm":"x"}`, valid: true},
		{name: "numeric name", body: `{"name":42}`, valid: false, badFields: []string{"name"}},
		{name: "string revenue", body: `{"calculationData":{"revenue":"1000"}}`, valid: false, badFields: []string{"calculationData.revenue"}},
		{name: "array body", body: `[]`, valid: false, badFields: []string{"(root)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := schema.ValidateBytes([]byte(tt.body))
			assert.Equal(t, tt.valid, res.Valid, res.GetErrorMessages())
			for _, f := range tt.badFields {
				assert.True(t, res.HasErrors(f), "expected error on %s, got %v", f, res.GetErrorMessages())
			}
		})
	}
}

func TestValidateBytes_MalformedJSON(t *testing.T) {
	res := MustLoad(SchemaEnquiry).ValidateBytes([]byte(`{"name":`))

	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "INVALID_JSON", res.Errors[0].Code)
	assert.Equal(t, []string{"(root): malformed JSON"}, res.GetErrorMessages())
}

func TestEstimateSchema(t *testing.T) {
	schema := MustLoad(SchemaEstimate)

	assert.True(t, schema.ValidateBytes([]byte(`{"annualRevenue":"1000000","profitMargin":20,"assetValue":0,"industry":"tech"}`)).Valid)

	res := schema.ValidateBytes([]byte(`{"annualRevenue":true,"industry":"tech"}`))
	assert.False(t, res.Valid)
	assert.True(t, res.HasErrors("annualRevenue"))
	assert.True(t, res.HasErrors("(root)"), res.GetErrorMessages())
}

func TestValidate_GoValue(t *testing.T) {
	res := MustLoad(SchemaEstimate).Validate(map[string]interface{}{
		"annualRevenue": 1.0, "profitMargin": 2.0, "assetValue": 3.0, "industry": "retail",
	})
	assert.True(t, res.Valid)
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("nope")
	assert.Error(t, err)
	assert.Panics(t, func() { MustLoad("nope") })
}
