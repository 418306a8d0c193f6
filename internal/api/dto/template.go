package dto

// CreateTemplateRequest is the payload for creating a payment template
type CreateTemplateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	IBAN        string `json:"iban" validate:"required,sk_iban"`
	AmountCents int64  `json:"amount_cents" validate:"gte=0"`
	Description string `json:"description,omitempty" validate:"omitempty,max=140"`
}

// UpdateTemplateRequest is the payload for updating a payment template
type UpdateTemplateRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	IBAN        string `json:"iban" validate:"required,sk_iban"`
	AmountCents int64  `json:"amount_cents" validate:"gte=0"`
	Description string `json:"description,omitempty" validate:"omitempty,max=140"`
}
