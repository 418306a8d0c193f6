package payment

import "time"

// Generation is an immutable record of one encoded payment. Rows are
// never updated, only inserted and read.
type Generation struct {
	ID             string    `json:"id"`
	UserID         *int64    `json:"user_id,omitempty"` // nil for anonymous generations
	TemplateID     *int64    `json:"template_id,omitempty"`
	AmountCents    int64     `json:"amount_cents"`
	VariableSymbol string    `json:"variable_symbol"`
	Payload        string    `json:"payload"`
	IBAN           string    `json:"iban"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
