package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newUsageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show the monthly usage ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			usage, err := apiClient.Usage().Get(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get usage: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(usage)
			}

			fmt.Printf("Plan:       %s\n", usage.Plan)
			fmt.Printf("Used:       %d of %d\n", usage.Used, usage.Limit)
			fmt.Printf("Remaining:  %d\n", usage.Remaining)
			fmt.Printf("Resets:     %s\n", usage.ResetDate.Format("2006-01-02"))
			if usage.TopUpCount > 0 {
				fmt.Printf("Top-ups:    %d (%s spent)\n", usage.TopUpCount, formatCents(usage.TotalSpentCents))
			}
			if usage.HasExceededLimit {
				fmt.Println("\nMonthly limit reached. See 'qrpay billing options'.")
			} else if usage.IsNearLimit {
				fmt.Println("\nAlmost at the monthly limit. See 'qrpay billing options'.")
			}
			return nil
		},
	}

	cmd.AddCommand(newUsageCheckCmd())

	return cmd
}

func newUsageCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether the next generation would be allowed",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := apiClient.Usage().CanGenerate(context.Background())
			if err != nil {
				return fmt.Errorf("failed to check usage: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(resp)
			}

			if resp.Allowed {
				fmt.Println("Generation allowed")
			} else {
				fmt.Printf("Generation blocked: %s\n", resp.Reason)
			}
			return nil
		},
	}
}
