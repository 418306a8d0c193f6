package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show account summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}

				if usage, err := apiClient.Usage().Get(ctx); err == nil {
					summary["usage"] = usage
				}
				if templates, err := apiClient.Templates().List(ctx); err == nil {
					summary["templates"] = len(templates)
				}
				if purchases, err := apiClient.Billing().History(ctx); err == nil {
					summary["purchases"] = len(purchases)
				}
				return printOutput(summary)
			}

			fmt.Println("QR Payment SK")
			fmt.Println(strings.Repeat("=", 40))

			usage, err := apiClient.Usage().Get(ctx)
			if err != nil {
				fmt.Printf("  Usage:       (error: %v)\n", err)
			} else {
				fmt.Printf("  Plan:        %s\n", usage.Plan)
				fmt.Printf("  Usage:       %d of %d this month", usage.Used, usage.Limit)
				if usage.IsNearLimit || usage.HasExceededLimit {
					fmt.Printf(" (!)")
				}
				fmt.Println()
				fmt.Printf("  Resets:      %s\n", usage.ResetDate.Format("2006-01-02"))
			}

			templates, err := apiClient.Templates().List(ctx)
			if err != nil {
				fmt.Printf("  Templates:   (error: %v)\n", err)
			} else {
				fmt.Printf("  Templates:   %d active\n", len(templates))
			}

			purchases, err := apiClient.Billing().History(ctx)
			if err != nil {
				fmt.Printf("  Purchases:   (error: %v)\n", err)
			} else {
				fmt.Printf("  Purchases:   %d recorded\n", len(purchases))
			}

			return nil
		},
	}
}
