// Package bysquare implements the Slovak BySquare PAY document encoding
// consumed by banking apps. A payment is serialized into a tab-separated
// field list, prefixed with a CRC32 checksum, compressed as a raw LZMA
// stream and wrapped in a 4-byte header before base32hex encoding.
package bysquare

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/iban"
)

// Payment is a single payment-order instruction in EUR
type Payment struct {
	IBAN            string
	AmountCents     int64
	VariableSymbol  string
	ConstantSymbol  string
	SpecificSymbol  string
	Note            string
	DueDate         time.Time // zero value means no due date
	BeneficiaryName string
}

// Header nibbles of the PAY document, all zero for a v0 payment order
const (
	bySquareType = 0
	version      = 0
	documentType = 0
	reserved     = 0
)

const (
	currencyEUR = "EUR"
	dueDateFmt  = "20060102"

	// Raw LZMA parameters fixed by the BySquare specification
	lzmaLC      = 3
	lzmaLP      = 0
	lzmaPB      = 2
	lzmaDictCap = 1 << 17
)

// serialize renders the payment as the PAY v0 tab-separated field list:
// one payment, one bank account, no standing-order or direct-debit
// extensions.
func serialize(p Payment) string {
	amount := formatAmount(p.AmountCents)

	dueDate := ""
	if !p.DueDate.IsZero() {
		dueDate = p.DueDate.Format(dueDateFmt)
	}

	fields := []string{
		"",  // invoice ID
		"1", // number of payments
		"1", // payment option: payment order
		amount,
		currencyEUR,
		dueDate,
		p.VariableSymbol,
		p.ConstantSymbol,
		p.SpecificSymbol,
		"", // originator's reference information
		p.Note,
		"1", // number of bank accounts
		iban.Normalize(p.IBAN),
		"",  // BIC
		"0", // standing order extension
		"0", // direct debit extension
		p.BeneficiaryName,
		"", // beneficiary address line 1
		"", // beneficiary address line 2
	}

	return strings.Join(fields, "\t")
}

// formatAmount renders cents as a decimal EUR amount without trailing
// zeros, matching what banking apps produce (25.00 encodes as "25")
func formatAmount(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100.0, 'f', -1, 64)
}

// parseAmount converts a decimal EUR amount back to cents
func parseAmount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return int64(math.Round(f * 100)), nil
}
