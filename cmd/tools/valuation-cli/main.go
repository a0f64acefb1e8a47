// cmd/tools/valuation-cli/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "valuation-cli",
		Short:         "Quick business valuation estimates",
		Long:          `Computes asset-based, market-multiple and DCF valuations and submits enquiries to the lead server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEstimateCmd(), newEnquireCmd())
	return root
}
