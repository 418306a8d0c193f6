package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RomanDenysov/qr-payment-sk/internal/config"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/repository/postgres"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
)

// Admin commands connect to the database directly instead of going
// through the API; they are meant for operators on the server host.
func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Server-side administration (direct database access)",
	}

	cmd.AddCommand(newAdminResetUsageCmd())

	return cmd
}

func newAdminResetUsageCmd() *cobra.Command {
	var userID int64

	cmd := &cobra.Command{
		Use:   "reset-usage",
		Short: "Run the monthly usage reset",
		Long: `Reset monthly usage counters. Without --user, resets every account
whose reset date has passed, exactly like the scheduled worker. With
--user, resets that one account immediately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := postgres.New(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			log := logger.New(logger.Config{Level: "error", Format: "console"})
			usage := services.NewUsageService(postgres.NewUserRepository(db), log)

			ctx := context.Background()
			if userID > 0 {
				if err := usage.ResetUserMonthlyUsage(ctx, userID); err != nil {
					return fmt.Errorf("reset failed: %w", err)
				}
				fmt.Printf("Usage reset for user %d\n", userID)
				return nil
			}

			count, err := usage.ResetAllMonthlyUsage(ctx)
			if err != nil {
				return fmt.Errorf("reset failed: %w", err)
			}
			fmt.Printf("Usage reset for %d users\n", count)
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "reset a single user by ID")

	return cmd
}
