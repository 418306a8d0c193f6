package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/RomanDenysov/qr-payment-sk/pkg/client"
)

func newTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "template",
		Aliases: []string{"templates"},
		Short:   "Manage reusable payment templates",
	}

	cmd.AddCommand(newTemplateListCmd())
	cmd.AddCommand(newTemplateCreateCmd())
	cmd.AddCommand(newTemplateUpdateCmd())
	cmd.AddCommand(newTemplateDeleteCmd())

	return cmd
}

func newTemplateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			templates, err := apiClient.Templates().List(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(templates)
			}

			table := NewTable("ID", "NAME", "IBAN", "AMOUNT", "USED")
			for _, t := range templates {
				table.AddRow(
					strconv.FormatInt(t.ID, 10),
					truncate(t.Name, 30),
					t.IBAN,
					formatCents(t.AmountCents),
					strconv.Itoa(t.UsageCount),
				)
			}
			table.Render()
			return nil
		},
	}
}

func templateFlags(cmd *cobra.Command, req *client.TemplateRequest) {
	cmd.Flags().StringVar(&req.Name, "name", "", "template name")
	cmd.Flags().StringVar(&req.IBAN, "iban", "", "Slovak IBAN")
	cmd.Flags().Int64Var(&req.AmountCents, "amount-cents", 0, "default amount in euro cents")
	cmd.Flags().StringVar(&req.Description, "description", "", "default payment note")
}

func newTemplateCreateCmd() *cobra.Command {
	var req client.TemplateRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a payment template",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := apiClient.Templates().Create(context.Background(), req)
			if err != nil {
				return fmt.Errorf("failed to create template: %w", err)
			}

			fmt.Printf("Template %d created: %s\n", t.ID, t.Name)
			return nil
		},
	}

	templateFlags(cmd, &req)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("iban")

	return cmd
}

func newTemplateUpdateCmd() *cobra.Command {
	var req client.TemplateRequest

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a payment template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid template ID: %s", args[0])
			}

			t, err := apiClient.Templates().Update(context.Background(), id, req)
			if err != nil {
				return fmt.Errorf("failed to update template: %w", err)
			}

			fmt.Printf("Template %d updated: %s\n", t.ID, t.Name)
			return nil
		},
	}

	templateFlags(cmd, &req)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("iban")

	return cmd
}

func newTemplateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a payment template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid template ID: %s", args[0])
			}

			if err := apiClient.Templates().Delete(context.Background(), id); err != nil {
				return fmt.Errorf("failed to delete template: %w", err)
			}

			fmt.Printf("Template %d deleted\n", id)
			return nil
		},
	}
}
