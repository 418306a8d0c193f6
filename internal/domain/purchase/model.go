package purchase

import "time"

// Purchase is one append-only audit row for a limit-changing purchase.
// This table is the system of record for billing reconciliation; rows
// are never updated or deleted.
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

// Purchase kinds
const (
	KindTopUp        = "topup"
	KindSubscription = "subscription"
)

// Prices in cents. The payment provider charges these; the audit row
// stores whatever was actually paid.
const (
	TopUpPriceCents        = 499
	SubscriptionPriceCents = 999
)
