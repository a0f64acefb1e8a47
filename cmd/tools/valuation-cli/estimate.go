// cmd/tools/valuation-cli/estimate.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"valuation-leads/internal/valuation"
	"valuation-leads/pkg/registry"

	"github.com/spf13/cobra"
)

// calculatorFlags are the form fields shared by estimate and enquire.
type calculatorFlags struct {
	revenue    string
	margin     string
	assets     string
	industry   string
	policyPath string
}

func (f *calculatorFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.revenue, "revenue", "", "Annual revenue in dollars")
	cmd.Flags().StringVar(&f.margin, "margin", "", "Profit margin in percent")
	cmd.Flags().StringVar(&f.assets, "assets", "", "Asset value in dollars")
	cmd.Flags().StringVar(&f.industry, "industry", string(valuation.IndustryTech), "Industry (tech, retail, manufacturing, services)")
	cmd.Flags().StringVar(&f.policyPath, "policy", "", "Optional policy file overriding the built-in multipliers")
}

// input parses the flags. Non-numeric figures are rejected here rather than
// turning into NaN estimates.
func (f *calculatorFlags) input() (*valuation.Estimator, valuation.Input, error) {
	policy, err := registry.LoadPolicy(f.policyPath)
	if err != nil {
		return nil, valuation.Input{}, err
	}
	estimator, err := valuation.NewEstimator(policy)
	if err != nil {
		return nil, valuation.Input{}, err
	}

	in, err := valuation.ParseForm(f.revenue, f.margin, f.assets, f.industry)
	if err != nil {
		return nil, valuation.Input{}, err
	}
	return estimator, in, nil
}

func newEstimateCmd() *cobra.Command {
	var flags calculatorFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print the three valuation figures and the recommended range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			estimator, in, err := flags.input()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}

			res, err := estimator.Estimate(in)
			if err == nil {
				err = checkFinite(in, res)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

// checkFinite rejects figures that are infinite or overflow, matching the
// estimate endpoint.
func checkFinite(in valuation.Input, res valuation.Result) error {
	var bad []string
	add := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			bad = append(bad, name)
		}
	}
	add("annualRevenue", in.AnnualRevenue)
	add("profitMargin", in.ProfitMarginPercent)
	add("assetValue", in.AssetValue)
	if len(bad) == 0 {
		add("assetBased", res.AssetBased)
		add("marketMultiple", res.MarketMultiple)
		add("dcf", res.DCF)
	}
	if len(bad) > 0 {
		return fmt.Errorf("invalid numeric input: %s is not a finite number", strings.Join(bad, ", "))
	}
	return nil
}

func printResult(w io.Writer, res valuation.Result) {
	fmt.Fprintf(w, "Asset-based valuation:     %s\n", valuation.FormatCurrency(res.AssetBased))
	fmt.Fprintf(w, "Market multiple valuation: %s\n", valuation.FormatCurrency(res.MarketMultiple))
	fmt.Fprintf(w, "DCF valuation:             %s\n", valuation.FormatCurrency(res.DCF))
	fmt.Fprintf(w, "Recommended range:         %s - %s\n",
		valuation.FormatCurrency(res.RecommendedRange.Min),
		valuation.FormatCurrency(res.RecommendedRange.Max))
}
