package purchase

import "context"

// Repository defines the interface for purchase data access. The Record*
// methods apply the user's limit change and insert the audit row in one
// database transaction so the audit trail can never drift from the live
// entitlement.
type Repository interface {
	// RecordTopUp raises the user's limit, bumps the top-up counter and
	// total spent, and appends the audit row atomically
	RecordTopUp(ctx context.Context, userID int64, prevLimit, newLimit int, amountCents int64, paymentRef string) (*Purchase, error)

	// RecordSubscription sets the user's plan and flat limit and appends
	// the audit row atomically
	RecordSubscription(ctx context.Context, userID int64, prevLimit, newLimit int, plan string, amountCents int64, paymentRef string) (*Purchase, error)

	// ListByUser retrieves a user's purchases, newest first
	ListByUser(ctx context.Context, userID int64) ([]*Purchase, error)
}
