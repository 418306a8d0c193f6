package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/purchase"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
)

// PurchaseRepository implements purchase.Repository
type PurchaseRepository struct {
	db *sql.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *sql.DB) purchase.Repository {
	return &PurchaseRepository{db: db}
}

// RecordTopUp raises the user's limit, bumps the top-up counter and total
// spent, and appends the audit row in a single transaction
func (r *PurchaseRepository) RecordTopUp(ctx context.Context, userID int64, prevLimit, newLimit int, amountCents int64, paymentRef string) (*purchase.Purchase, error) {
	return r.record(ctx, &purchase.Purchase{
		UserID:        userID,
		Kind:          purchase.KindTopUp,
		PreviousLimit: prevLimit,
		NewLimit:      newLimit,
		AmountCents:   amountCents,
		PaymentRef:    paymentRef,
	}, `
		UPDATE users
		SET monthly_qr_limit = $2, top_up_count = top_up_count + 1,
			total_spent_cents = total_spent_cents + $3, updated_at = $4
		WHERE id = $1
	`, userID, newLimit, amountCents, time.Now().Unix())
}

// RecordSubscription sets the user's plan and flat limit and appends the
// audit row in a single transaction
func (r *PurchaseRepository) RecordSubscription(ctx context.Context, userID int64, prevLimit, newLimit int, plan string, amountCents int64, paymentRef string) (*purchase.Purchase, error) {
	return r.record(ctx, &purchase.Purchase{
		UserID:        userID,
		Kind:          purchase.KindSubscription,
		PreviousLimit: prevLimit,
		NewLimit:      newLimit,
		AmountCents:   amountCents,
		PaymentRef:    paymentRef,
	}, `
		UPDATE users
		SET plan = $2, monthly_qr_limit = $3,
			total_spent_cents = total_spent_cents + $4, updated_at = $5
		WHERE id = $1
	`, userID, plan, newLimit, amountCents, time.Now().Unix())
}

func (r *PurchaseRepository) record(ctx context.Context, p *purchase.Purchase, userQuery string, userArgs ...interface{}) (*purchase.Purchase, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.DatabaseError("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, userQuery, userArgs...)
	if err != nil {
		return nil, errors.DatabaseError("Failed to update user limit", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return nil, errors.NotFound("User")
	}

	p.CreatedAt = time.Now()

	insertQuery := `
		INSERT INTO limit_purchases (user_id, kind, previous_limit, new_limit,
			amount_cents, payment_ref, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err = tx.QueryRowContext(ctx, insertQuery,
		p.UserID, p.Kind, p.PreviousLimit, p.NewLimit,
		p.AmountCents, p.PaymentRef, p.CreatedAt.Unix(),
	).Scan(&p.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to record purchase", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.DatabaseError("Failed to commit purchase", err)
	}

	return p, nil
}

// ListByUser retrieves a user's purchases, newest first
func (r *PurchaseRepository) ListByUser(ctx context.Context, userID int64) ([]*purchase.Purchase, error) {
	query := `
		SELECT id, user_id, kind, previous_limit, new_limit, amount_cents,
			payment_ref, created_at
		FROM limit_purchases
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list purchases", err)
	}
	defer rows.Close()

	var purchases []*purchase.Purchase
	for rows.Next() {
		var p purchase.Purchase
		var paymentRef sql.NullString
		var createdAt int64

		err := rows.Scan(
			&p.ID, &p.UserID, &p.Kind, &p.PreviousLimit, &p.NewLimit,
			&p.AmountCents, &paymentRef, &createdAt,
		)
		if err != nil {
			return nil, errors.DatabaseError("Failed to scan purchase", err)
		}

		if paymentRef.Valid {
			p.PaymentRef = paymentRef.String
		}
		p.CreatedAt = time.Unix(createdAt, 0).UTC()
		purchases = append(purchases, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate purchases", err)
	}

	return purchases, nil
}
