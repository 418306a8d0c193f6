package dto

import (
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/payment"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
)

// GenerateRequest is the payload for QR payment generation. IBAN and
// amount may come from a referenced template instead.
type GenerateRequest struct {
	IBAN            string `json:"iban" validate:"omitempty,sk_iban"`
	AmountCents     int64  `json:"amount_cents" validate:"omitempty,gt=0,lte=100000000"`
	VariableSymbol  string `json:"variable_symbol,omitempty" validate:"omitempty,variable_symbol"`
	ConstantSymbol  string `json:"constant_symbol,omitempty" validate:"omitempty,max=4"`
	SpecificSymbol  string `json:"specific_symbol,omitempty" validate:"omitempty,max=10"`
	Note            string `json:"note,omitempty" validate:"omitempty,max=140"`
	DueDate         string `json:"due_date,omitempty"`
	BeneficiaryName string `json:"beneficiary_name,omitempty" validate:"omitempty,max=70"`
	TemplateID      *int64 `json:"template_id,omitempty"`
}

// GenerateResponse is returned after a successful generation
type GenerateResponse struct {
	ID             string      `json:"id"`
	Payload        string      `json:"payload"`
	QRCode         string      `json:"qr_code"`
	IBAN           string      `json:"iban"`
	AmountCents    int64       `json:"amount_cents"`
	VariableSymbol string      `json:"variable_symbol"`
	Note           string      `json:"note,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	Usage          *user.Usage `json:"usage,omitempty"`
}

// GenerationListResponse is a page of the generation history
type GenerationListResponse struct {
	Items  []*payment.Generation `json:"items"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// DecodeRequest is the payload for decoding an existing BySquare string
type DecodeRequest struct {
	Payload string `json:"payload" validate:"required"`
}

// DecodeResponse is the decoded payment
type DecodeResponse struct {
	IBAN            string `json:"iban"`
	AmountCents     int64  `json:"amount_cents"`
	VariableSymbol  string `json:"variable_symbol,omitempty"`
	ConstantSymbol  string `json:"constant_symbol,omitempty"`
	SpecificSymbol  string `json:"specific_symbol,omitempty"`
	Note            string `json:"note,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
	BeneficiaryName string `json:"beneficiary_name,omitempty"`
}
