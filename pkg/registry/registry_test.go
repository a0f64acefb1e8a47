// pkg/registry/registry_test.go
package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valuation-leads/internal/valuation"
)

func writePolicy(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPolicy_ShippedFileMatchesDefault(t *testing.T) {
	policy, err := LoadPolicy(filepath.Join("..", "..", "configs", "policy.json"))
	require.NoError(t, err)
	assert.Equal(t, valuation.DefaultPolicy(), policy)
}

func TestLoadPolicy_EmptyPathIsDefault(t *testing.T) {
	policy, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, valuation.DefaultPolicy(), policy)
}

func TestLoadPolicy_CustomTable(t *testing.T) {
	path := writePolicy(t, `{
		"growthRate": 0.03, "discountRate": 0.12, "horizonYears": 3,
		"industries": [{"id": "healthcare", "revenueMultiple": 2.0, "profitMultiple": 11.0}]
	}`)

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, []valuation.Industry{"healthcare"}, policy.Industries())
	assert.Equal(t, 3, policy.HorizonYears)

	e, err := valuation.NewEstimator(policy)
	require.NoError(t, err)
	res, err := e.Estimate(valuation.Input{AnnualRevenue: 100, ProfitMarginPercent: 10, AssetValue: 5, Industry: "healthcare"})
	require.NoError(t, err)
	assert.InDelta(t, (100*2.0+10*11.0)/2, res.MarketMultiple, 1e-9)
}

func TestLoadPolicy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"industries": [`},
		{"no industries", `{"growthRate": 0.05, "discountRate": 0.1, "horizonYears": 5, "industries": []}`},
		{"discount below growth", `{"growthRate": 0.1, "discountRate": 0.05, "horizonYears": 5,
			"industries": [{"id": "tech", "revenueMultiple": 1, "profitMultiple": 1}]}`},
		{"duplicate industry", `{"growthRate": 0.05, "discountRate": 0.1, "horizonYears": 5,
			"industries": [{"id": "tech", "revenueMultiple": 1, "profitMultiple": 1},
			               {"id": "tech", "revenueMultiple": 2, "profitMultiple": 2}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPolicy(writePolicy(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	_, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSavePolicyFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "policy.json")

	require.NoError(t, SavePolicyFile(FromPolicy(valuation.DefaultPolicy(), "1.0.0"), path))

	pf, err := LoadPolicyFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", pf.Version)
	require.Len(t, pf.Industries, 4)
	assert.Equal(t, "manufacturing", pf.Industries[0].ID)

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, valuation.DefaultPolicy(), policy)
}
