package dto

import "github.com/RomanDenysov/qr-payment-sk/internal/domain/user"

// RegisterRequest is the payload for account registration
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
}

// LoginRequest is the payload for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token when it is not in the cookie
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// AuthResponse is returned after successful registration or login
type AuthResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         *user.User `json:"user"`
}
