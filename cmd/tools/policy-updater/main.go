// cmd/tools/policy-updater/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"valuation-leads/pkg/registry"
)

const defaultPolicyPath = "configs/policy.json"

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)

	// Add command flags
	pathAdd := addCmd.String("path", defaultPolicyPath, "Path to policy file")
	idAdd := addCmd.String("id", "", "Industry ID (e.g., healthcare)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Healthcare)")
	revenue := addCmd.Float64("revenue", 0, "Revenue multiple")
	profit := addCmd.Float64("profit", 0, "Profit multiple")

	// Update command flags
	pathUpdate := updateCmd.String("path", defaultPolicyPath, "Path to policy file")
	idUpdate := updateCmd.String("id", "", "Industry ID to update, or empty for policy-wide fields")
	field := updateCmd.String("field", "", "Field to update (revenue, profit, displayName, growthRate, discountRate, horizonYears)")
	value := updateCmd.String("value", "", "New value for the field")

	// Validate command flags
	pathValidate := validateCmd.String("path", defaultPolicyPath, "Path to policy file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *revenue <= 0 || *profit <= 0 {
			fmt.Println("Error: id, revenue and profit are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		entry := registry.IndustryEntry{
			ID:              *idAdd,
			DisplayName:     *displayName,
			RevenueMultiple: *revenue,
			ProfitMultiple:  *profit,
		}
		if err := addIndustry(*pathAdd, entry); err != nil {
			fmt.Printf("Error adding industry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added industry: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *field == "" || *value == "" {
			fmt.Println("Error: field and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updatePolicy(*pathUpdate, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating policy: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated %s to %s\n", *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		n, err := validatePolicy(*pathValidate)
		if err != nil {
			fmt.Printf("Policy validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Policy validation passed. Found %d industries.\n", n)

	case "help":
		fallthrough
	default:
		help()
	}
}

func loadOrDefault(path string) (*registry.PolicyFile, error) {
	pf, err := registry.LoadPolicyFile(path)
	if errors.Is(err, os.ErrNotExist) {
		policy, _ := registry.LoadPolicy("")
		return registry.FromPolicy(policy, "1.0.0"), nil
	}
	return pf, err
}

// save refuses to write a file the server would reject at startup.
func save(pf *registry.PolicyFile, path string) error {
	if _, err := pf.ToPolicy(); err != nil {
		return err
	}
	pf.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return registry.SavePolicyFile(pf, path)
}

func addIndustry(path string, entry registry.IndustryEntry) error {
	pf, err := loadOrDefault(path)
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}

	for _, existing := range pf.Industries {
		if existing.ID == entry.ID {
			return fmt.Errorf("industry with ID %s already exists", entry.ID)
		}
	}

	pf.Industries = append(pf.Industries, entry)
	return save(pf, path)
}

func updatePolicy(path, id, field, value string) error {
	pf, err := registry.LoadPolicyFile(path)
	if err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}

	if id == "" {
		switch field {
		case "growthRate":
			pf.GrowthRate, err = strconv.ParseFloat(value, 64)
		case "discountRate":
			pf.DiscountRate, err = strconv.ParseFloat(value, 64)
		case "horizonYears":
			pf.HorizonYears, err = strconv.Atoi(value)
		case "version":
			pf.Version = value
		default:
			return fmt.Errorf("unknown policy field: %s", field)
		}
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", field, err)
		}
		return save(pf, path)
	}

	found := false
	for i := range pf.Industries {
		if pf.Industries[i].ID != id {
			continue
		}
		found = true
		switch field {
		case "revenue":
			pf.Industries[i].RevenueMultiple, err = strconv.ParseFloat(value, 64)
		case "profit":
			pf.Industries[i].ProfitMultiple, err = strconv.ParseFloat(value, 64)
		case "displayName":
			pf.Industries[i].DisplayName = value
		default:
			return fmt.Errorf("unknown industry field: %s", field)
		}
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", field, err)
		}
		break
	}

	if !found {
		return fmt.Errorf("industry with ID %s not found", id)
	}
	return save(pf, path)
}

func validatePolicy(path string) (int, error) {
	pf, err := registry.LoadPolicyFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to load policy: %w", err)
	}

	for _, entry := range pf.Industries {
		if entry.ID == "" {
			return 0, fmt.Errorf("industry missing required field: id")
		}
	}

	policy, err := pf.ToPolicy()
	if err != nil {
		return 0, err
	}
	return len(policy.Multipliers), nil
}

func help() {
	fmt.Print(`
Usage: policy-updater <command> [flags]

Commands:
  add      Add an industry to the multiplier table
  update   Update an industry multiplier or a policy-wide rate
  validate Validate the policy file
  help     Show this help message

Examples:
  policy-updater add -id healthcare -displayName "Healthcare" -revenue 2.0 -profit 11
  policy-updater update -id retail -field revenue -value 0.9
  policy-updater update -field discountRate -value 0.12
  policy-updater validate -path configs/policy.json

Use 'policy-updater <command> -h' for more information about a command.
` + "\n")
}
