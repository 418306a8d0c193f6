package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RomanDenysov/qr-payment-sk/pkg/client"
)

func newGenerateCmd() *cobra.Command {
	var (
		iban        string
		amountCents int64
		vs          string
		cs          string
		ss          string
		note        string
		dueDate     string
		beneficiary string
		templateID  int64
		outFile     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a BySquare payment QR code",
		Long: `Generate encodes a Slovak payment into a BySquare QR code.
Works without an account against the anonymous quota; logged-in users
draw from their monthly limit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := client.GenerateRequest{
				IBAN:            iban,
				AmountCents:     amountCents,
				VariableSymbol:  vs,
				ConstantSymbol:  cs,
				SpecificSymbol:  ss,
				Note:            note,
				DueDate:         dueDate,
				BeneficiaryName: beneficiary,
			}
			if templateID > 0 {
				req.TemplateID = &templateID
			}

			resp, err := apiClient.Payments().Generate(context.Background(), req)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			if outFile != "" {
				if err := writePNG(resp.QRCode, outFile); err != nil {
					return err
				}
				fmt.Printf("QR code saved to %s\n", outFile)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(resp)
			}

			fmt.Printf("Payload:  %s\n", resp.Payload)
			fmt.Printf("IBAN:     %s\n", resp.IBAN)
			fmt.Printf("Amount:   %s\n", formatCents(resp.AmountCents))
			fmt.Printf("VS:       %s\n", resp.VariableSymbol)
			if resp.Usage != nil {
				fmt.Printf("Usage:    %d of %d this month\n", resp.Usage.Used, resp.Usage.Limit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&iban, "iban", "", "Slovak IBAN of the beneficiary")
	cmd.Flags().Int64Var(&amountCents, "amount-cents", 0, "amount in euro cents")
	cmd.Flags().StringVar(&vs, "vs", "", "variable symbol (up to 10 digits, generated when empty)")
	cmd.Flags().StringVar(&cs, "cs", "", "constant symbol")
	cmd.Flags().StringVar(&ss, "ss", "", "specific symbol")
	cmd.Flags().StringVar(&note, "note", "", "payment note")
	cmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&beneficiary, "beneficiary", "", "beneficiary name")
	cmd.Flags().Int64Var(&templateID, "template", 0, "fill IBAN and amount from a template")
	cmd.Flags().StringVar(&outFile, "out", "", "write the QR code PNG to a file")

	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <payload>",
		Short: "Decode a BySquare payload back into its payment fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decoded, err := apiClient.Payments().Decode(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(decoded)
			}

			fmt.Printf("IBAN:     %s\n", decoded.IBAN)
			fmt.Printf("Amount:   %s\n", formatCents(decoded.AmountCents))
			if decoded.VariableSymbol != "" {
				fmt.Printf("VS:       %s\n", decoded.VariableSymbol)
			}
			if decoded.Note != "" {
				fmt.Printf("Note:     %s\n", decoded.Note)
			}
			if decoded.DueDate != "" {
				fmt.Printf("Due:      %s\n", decoded.DueDate)
			}
			if decoded.BeneficiaryName != "" {
				fmt.Printf("To:       %s\n", decoded.BeneficiaryName)
			}
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past generations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := apiClient.Payments().List(context.Background(), limit, offset)
			if err != nil {
				return fmt.Errorf("failed to list generations: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(page)
			}

			table := NewTable("CREATED", "IBAN", "AMOUNT", "VS", "NOTE")
			for _, g := range page.Items {
				table.AddRow(
					g.CreatedAt.Format("2006-01-02 15:04"),
					g.IBAN,
					formatCents(g.AmountCents),
					g.VariableSymbol,
					truncate(g.Note, 30),
				)
			}
			table.Render()
			fmt.Printf("\nShowing %d of %d\n", len(page.Items), page.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "page offset")

	return cmd
}

// writePNG decodes a PNG data URL and writes it to a file
func writePNG(dataURL, path string) error {
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(dataURL, prefix) {
		return fmt.Errorf("unexpected QR code format")
	}

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	if err != nil {
		return fmt.Errorf("failed to decode QR code image: %w", err)
	}

	if err := os.WriteFile(path, png, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
