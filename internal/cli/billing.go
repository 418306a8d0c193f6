package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newBillingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Limit upgrades and purchase history",
	}

	cmd.AddCommand(newBillingOptionsCmd())
	cmd.AddCommand(newBillingTopUpCmd())
	cmd.AddCommand(newBillingSubscribeCmd())
	cmd.AddCommand(newBillingCancelCmd())
	cmd.AddCommand(newBillingHistoryCmd())

	return cmd
}

func newBillingOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show available limit upgrades",
		RunE: func(cmd *cobra.Command, args []string) error {
			options, err := apiClient.Billing().Options(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get options: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(options)
			}

			if len(options) == 0 {
				fmt.Println("No upgrades available on the current plan")
				return nil
			}

			table := NewTable("KIND", "NEW LIMIT", "PRICE", "BONUS")
			for _, o := range options {
				bonus := "-"
				if o.BonusCredits > 0 {
					bonus = fmt.Sprintf("+%d credits", o.BonusCredits)
				}
				table.AddRow(o.Kind, strconv.Itoa(o.NewLimit), formatCents(o.PriceCents), bonus)
			}
			table.Render()
			return nil
		},
	}
}

func newBillingTopUpCmd() *cobra.Command {
	var paymentRef string

	cmd := &cobra.Command{
		Use:   "topup",
		Short: "Buy the next monthly limit step",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.Billing().TopUp(context.Background(), paymentRef)
			if err != nil {
				return fmt.Errorf("top-up failed: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			fmt.Printf("Monthly limit raised to %d\n", result.Usage.Limit)
			if result.BonusCredits > 0 {
				fmt.Printf("First top-up bonus: +%d credits\n", result.BonusCredits)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&paymentRef, "payment-ref", "", "payment provider charge reference")

	return cmd
}

func newBillingSubscribeCmd() *cobra.Command {
	var paymentRef string

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Switch to the starter subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := apiClient.Billing().Subscribe(context.Background(), paymentRef)
			if err != nil {
				return fmt.Errorf("subscribe failed: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(result)
			}

			fmt.Printf("Subscription active, monthly limit is now %d\n", result.Usage.Limit)
			return nil
		},
	}

	cmd.Flags().StringVar(&paymentRef, "payment-ref", "", "payment provider charge reference")

	return cmd
}

func newBillingCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the starter subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			usage, err := apiClient.Billing().CancelSubscription(context.Background())
			if err != nil {
				return fmt.Errorf("cancel failed: %w", err)
			}

			fmt.Printf("Subscription cancelled, back on the %s plan with a limit of %d\n", usage.Plan, usage.Limit)
			return nil
		},
	}
}

func newBillingHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List past purchases, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			purchases, err := apiClient.Billing().History(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get history: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(purchases)
			}

			table := NewTable("DATE", "KIND", "LIMIT", "PAID")
			for _, p := range purchases {
				table.AddRow(
					p.CreatedAt.Format("2006-01-02"),
					p.Kind,
					fmt.Sprintf("%d -> %d", p.PreviousLimit, p.NewLimit),
					formatCents(p.AmountCents),
				)
			}
			table.Render()
			return nil
		},
	}
}
