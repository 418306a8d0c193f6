package user

import "context"

// Service defines the interface for user business logic
type Service interface {
	// Register creates a new account with the default monthly limit
	Register(ctx context.Context, email, password string, fullName *string) (*User, error)

	// Authenticate checks credentials and returns the user
	Authenticate(ctx context.Context, email, password string) (*User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)
}
