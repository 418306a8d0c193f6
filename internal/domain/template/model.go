package template

import "time"

// Template is a reusable payment shape. Deletion is soft: IsActive flips
// to false and the row stays referenced by past generations.
type Template struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	IBAN        string    `json:"iban"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description,omitempty"`
	UsageCount  int       `json:"usage_count"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
