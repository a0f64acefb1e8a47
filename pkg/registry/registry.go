// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"valuation-leads/internal/valuation"
)

// LoadPolicyFile reads a policy file without validating it.
func LoadPolicyFile(path string) (*PolicyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pf PolicyFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	return &pf, nil
}

// LoadPolicy reads and validates a policy file. An empty path yields the
// built-in policy.
func LoadPolicy(path string) (valuation.Policy, error) {
	if path == "" {
		return valuation.DefaultPolicy(), nil
	}

	pf, err := LoadPolicyFile(path)
	if err != nil {
		return valuation.Policy{}, err
	}

	policy, err := pf.ToPolicy()
	if err != nil {
		return valuation.Policy{}, fmt.Errorf("policy file %s: %w", path, err)
	}
	return policy, nil
}

// ToPolicy converts the file into a validated policy. Duplicate industry ids
// are rejected.
func (pf *PolicyFile) ToPolicy() (valuation.Policy, error) {
	policy := valuation.Policy{
		Multipliers:  make(map[valuation.Industry]valuation.Multiplier, len(pf.Industries)),
		GrowthRate:   pf.GrowthRate,
		DiscountRate: pf.DiscountRate,
		HorizonYears: pf.HorizonYears,
	}

	for _, entry := range pf.Industries {
		id := valuation.Industry(entry.ID)
		if _, dup := policy.Multipliers[id]; dup {
			return valuation.Policy{}, fmt.Errorf("%w: duplicate industry %q", valuation.ErrInvalidPolicy, entry.ID)
		}
		policy.Multipliers[id] = valuation.Multiplier{
			Revenue: entry.RevenueMultiple,
			Profit:  entry.ProfitMultiple,
		}
	}

	if err := policy.Validate(); err != nil {
		return valuation.Policy{}, err
	}
	return policy, nil
}

// SavePolicyFile writes pf as indented JSON, creating the directory if needed.
func SavePolicyFile(pf *PolicyFile, path string) error {
	data, err := json.MarshalIndent(pf, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal policy file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write policy file: %w", err)
	}
	return nil
}

// FromPolicy converts a policy into its file form with industries sorted by id.
func FromPolicy(p valuation.Policy, version string) *PolicyFile {
	pf := &PolicyFile{
		Version:      version,
		GrowthRate:   p.GrowthRate,
		DiscountRate: p.DiscountRate,
		HorizonYears: p.HorizonYears,
	}
	for _, id := range p.Industries() {
		m := p.Multipliers[id]
		pf.Industries = append(pf.Industries, IndustryEntry{
			ID:              string(id),
			RevenueMultiple: m.Revenue,
			ProfitMultiple:  m.Profit,
		})
	}
	return pf
}
