package payment

import "context"

// Repository defines the interface for generation data access
type Repository interface {
	// Create inserts a new generation record. Returns a conflict error
	// when the variable symbol is already taken.
	Create(ctx context.Context, g *Generation) error

	// GetByID retrieves a generation by ID, scoped to its owner
	GetByID(ctx context.Context, userID int64, id string) (*Generation, error)

	// ListByUser retrieves a user's generations, newest first
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*Generation, int64, error)
}
