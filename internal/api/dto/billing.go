package dto

// PurchaseRequest carries the payment provider reference confirming the
// charge
type PurchaseRequest struct {
	PaymentRef string `json:"payment_ref,omitempty" validate:"omitempty,max=255"`
}

// UpgradeOption describes the next available limit upgrade
type UpgradeOption struct {
	Kind         string `json:"kind"`
	NewLimit     int    `json:"new_limit"`
	PriceCents   int64  `json:"price_cents"`
	BonusCredits int    `json:"bonus_credits,omitempty"`
}
