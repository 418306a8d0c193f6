package template

import "context"

// Repository defines the interface for template data access
type Repository interface {
	// Create creates a new template
	Create(ctx context.Context, t *Template) error

	// GetByID retrieves an active template scoped to its owner
	GetByID(ctx context.Context, userID, id int64) (*Template, error)

	// ListActive retrieves a user's active templates
	ListActive(ctx context.Context, userID int64) ([]*Template, error)

	// Update updates template fields
	Update(ctx context.Context, t *Template) error

	// Deactivate soft-deletes a template
	Deactivate(ctx context.Context, userID, id int64) error

	// IncrementUsage atomically bumps the usage counter
	IncrementUsage(ctx context.Context, id int64) error
}
