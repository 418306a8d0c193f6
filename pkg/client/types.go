package client

import "time"

// User represents an account and its entitlement state
type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	FullName        *string   `json:"full_name,omitempty"`
	Plan            string    `json:"plan"`
	MonthlyQrLimit  int       `json:"monthly_qr_limit"`
	QrUsedThisMonth int       `json:"qr_used_this_month"`
	TopUpCount      int       `json:"top_up_count"`
	LimitResetDate  time.Time `json:"limit_reset_date"`
	TotalSpentCents int64     `json:"total_spent_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Usage is the monthly entitlement snapshot
type Usage struct {
	Used             int       `json:"used"`
	Limit            int       `json:"limit"`
	Remaining        int       `json:"remaining"`
	Plan             string    `json:"plan"`
	TopUpCount       int       `json:"topUpCount"`
	TotalSpentCents  int64     `json:"totalSpentCents"`
	ResetDate        time.Time `json:"resetDate"`
	IsNearLimit      bool      `json:"isNearLimit"`
	HasExceededLimit bool      `json:"hasExceededLimit"`
}

// AuthResponse is returned after registration, login or token refresh
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// GenerateRequest describes the payment to encode. IBAN and amount may
// come from a referenced template instead.
type GenerateRequest struct {
	IBAN            string `json:"iban,omitempty"`
	AmountCents     int64  `json:"amount_cents,omitempty"`
	VariableSymbol  string `json:"variable_symbol,omitempty"`
	ConstantSymbol  string `json:"constant_symbol,omitempty"`
	SpecificSymbol  string `json:"specific_symbol,omitempty"`
	Note            string `json:"note,omitempty"`
	DueDate         string `json:"due_date,omitempty"` // YYYY-MM-DD
	BeneficiaryName string `json:"beneficiary_name,omitempty"`
	TemplateID      *int64 `json:"template_id,omitempty"`
}

// GenerateResponse is the result of a generation: the BySquare payload,
// a PNG data URL of the QR code, and the usage snapshot for
// authenticated callers
type GenerateResponse struct {
	ID             string    `json:"id"`
	Payload        string    `json:"payload"`
	QRCode         string    `json:"qr_code"`
	IBAN           string    `json:"iban"`
	AmountCents    int64     `json:"amount_cents"`
	VariableSymbol string    `json:"variable_symbol"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	Usage          *Usage    `json:"usage,omitempty"`
}

// Generation is one row of the generation history
type Generation struct {
	ID             string    `json:"id"`
	UserID         *int64    `json:"user_id,omitempty"`
	TemplateID     *int64    `json:"template_id,omitempty"`
	AmountCents    int64     `json:"amount_cents"`
	VariableSymbol string    `json:"variable_symbol"`
	Payload        string    `json:"payload"`
	IBAN           string    `json:"iban"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// GenerationList is a page of the generation history
type GenerationList struct {
	Items  []*Generation `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// DecodedPayment is a BySquare payload decoded back into its fields
type DecodedPayment struct {
	IBAN            string `json:"iban"`
	AmountCents     int64  `json:"amount_cents"`
	VariableSymbol  string `json:"variable_symbol,omitempty"`
	ConstantSymbol  string `json:"constant_symbol,omitempty"`
	SpecificSymbol  string `json:"specific_symbol,omitempty"`
	Note            string `json:"note,omitempty"`
	DueDate         string `json:"due_date,omitempty"`
	BeneficiaryName string `json:"beneficiary_name,omitempty"`
}

// CanGenerate reports whether the next generation would be allowed
type CanGenerate struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Template is a reusable payment shape
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

// TemplateRequest is the payload for creating or updating a template
type TemplateRequest struct {
	Name        string `json:"name"`
	IBAN        string `json:"iban"`
	AmountCents int64  `json:"amount_cents"`
	Description string `json:"description,omitempty"`
}

// Purchase is one audit row for a limit-changing purchase
type Purchase struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Kind          string    `json:"kind"`
	PreviousLimit int       `json:"previous_limit"`
	NewLimit      int       `json:"new_limit"`
	AmountCents   int64     `json:"amount_cents"`
	PaymentRef    string    `json:"payment_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UpgradeOption describes an available limit upgrade
type UpgradeOption struct {
	Kind         string `json:"kind"`
	NewLimit     int    `json:"new_limit"`
	PriceCents   int64  `json:"price_cents"`
	BonusCredits int    `json:"bonus_credits,omitempty"`
}

// PurchaseResult reports a completed top-up or subscription
type PurchaseResult struct {
	Purchase     *Purchase `json:"purchase"`
	Usage        *Usage    `json:"usage"`
	BonusCredits int       `json:"bonus_credits,omitempty"`
}
