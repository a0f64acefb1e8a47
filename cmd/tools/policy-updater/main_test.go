// cmd/tools/policy-updater/main_test.go
package main

import (
	"path/filepath"
	"testing"

	"valuation-leads/pkg/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIndustry_CreatesFileFromDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")

	require.NoError(t, addIndustry(path, registry.IndustryEntry{ID: "healthcare", RevenueMultiple: 2, ProfitMultiple: 11}))

	n, err := validatePolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	err = addIndustry(path, registry.IndustryEntry{ID: "healthcare", RevenueMultiple: 2, ProfitMultiple: 11})
	assert.ErrorContains(t, err, "already exists")
}

func TestUpdatePolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, addIndustry(path, registry.IndustryEntry{ID: "healthcare", RevenueMultiple: 2, ProfitMultiple: 11}))

	require.NoError(t, updatePolicy(path, "retail", "revenue", "0.9"))
	require.NoError(t, updatePolicy(path, "", "discountRate", "0.12"))

	policy, err := registry.LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 0.9, policy.Multipliers["retail"].Revenue)
	assert.Equal(t, 0.12, policy.DiscountRate)
}

func TestUpdatePolicy_Rejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, addIndustry(path, registry.IndustryEntry{ID: "healthcare", RevenueMultiple: 2, ProfitMultiple: 11}))

	assert.ErrorContains(t, updatePolicy(path, "mining", "revenue", "1"), "not found")
	assert.ErrorContains(t, updatePolicy(path, "retail", "colour", "1"), "unknown industry field")
	assert.Error(t, updatePolicy(path, "retail", "revenue", "abc"))
	// discount rate must stay above the growth rate
	assert.Error(t, updatePolicy(path, "", "discountRate", "0.01"))

	policy, err := registry.LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, 0.10, policy.DiscountRate)
}
