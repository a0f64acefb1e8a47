// cmd/tools/valuation-cli/enquire.go
package main

import (
	"fmt"
	"time"

	"valuation-leads/internal/enquiryclient"
	"valuation-leads/internal/models"
	"valuation-leads/internal/valuation"

	"github.com/spf13/cobra"
)

const submitFailedMessage = "Failed to submit enquiry. Please try again."

func newEnquireCmd() *cobra.Command {
	var flags calculatorFlags
	var contact models.Contact
	var endpoint string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "enquire",
		Short: "Calculate an estimate and reveal it after submitting contact details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			estimator, in, err := flags.input()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}

			session := valuation.NewSession(estimator)
			if err := session.Calculate(in); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Your estimate is ready. Submitting your details...")

			client := enquiryclient.New(endpoint, timeout)
			res, err := session.SubmitContact(cmd.Context(), contact, client)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), submitFailedMessage)
				return err
			}

			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&contact.Name, "name", "", "Your name")
	cmd.Flags().StringVar(&contact.Email, "email", "", "Your e-mail address")
	cmd.Flags().StringVar(&contact.Phone, "phone", "", "Your phone number")
	cmd.Flags().StringVar(&contact.CompanyName, "company", "", "Your company name")
	cmd.Flags().StringVar(&endpoint, "endpoint", enquiryclient.DefaultEndpoint, "Enquiry submission URL")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Submission timeout")
	return cmd
}
