package user

import (
	"context"
	"time"
)

// Repository defines the interface for user data access
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update updates a user
	Update(ctx context.Context, user *User) error

	// ConsumeCredit atomically increments the monthly usage counter if
	// and only if the limit is not yet reached, in a single conditional
	// update. It returns the post-increment user and true on success, or
	// the current user and false when the limit is exhausted. Two
	// concurrent calls with one credit left yield exactly one success.
	ConsumeCredit(ctx context.Context, id int64) (*User, bool, error)

	// RefundCredit returns one previously consumed credit, used to
	// compensate when the generation fails after the credit was claimed.
	// A counter already at zero stays at zero.
	RefundCredit(ctx context.Context, id int64) error

	// ResetUsage zeroes the monthly counter for one user and advances the
	// reset date. Safe to call repeatedly.
	ResetUsage(ctx context.Context, id int64, nextReset time.Time) error

	// ResetAllDue zeroes the monthly counter for every user whose reset
	// date is at or before now, advancing their reset date. Returns the
	// number of users reset; zero when nothing is due, which makes
	// repeated runs within one period a no-op.
	ResetAllDue(ctx context.Context, now, nextReset time.Time) (int64, error)
}
