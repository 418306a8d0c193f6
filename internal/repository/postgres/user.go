package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, full_name, password_hash, plan, monthly_qr_limit,
	qr_used_this_month, top_up_count, limit_reset_date, total_spent_cents,
	created_at, updated_at`

// scanUser scans one user row from a row scanner
func scanUser(row interface{ Scan(...interface{}) error }) (*user.User, error) {
	var u user.User
	var fullName sql.NullString
	var resetDate, createdAt, updatedAt int64

	err := row.Scan(
		&u.ID, &u.Email, &fullName, &u.PasswordHash, &u.Plan, &u.MonthlyQrLimit,
		&u.QrUsedThisMonth, &u.TopUpCount, &resetDate, &u.TotalSpentCents,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if fullName.Valid {
		u.FullName = &fullName.String
	}
	u.LimitResetDate = time.Unix(resetDate, 0).UTC()
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	u.UpdatedAt = time.Unix(updatedAt, 0).UTC()

	return &u, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (email, full_name, password_hash, plan, monthly_qr_limit,
			qr_used_this_month, top_up_count, limit_reset_date, total_spent_cents,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.FullName, u.PasswordHash, u.Plan, u.MonthlyQrLimit,
		u.QrUsedThisMonth, u.TopUpCount, u.LimitResetDate.Unix(), u.TotalSpentCents,
		now.Unix(), now.Unix(),
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("Email is already registered")
		}
		return errors.DatabaseError("Failed to create user", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}

	return u, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}

	return u, nil
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET email = $1, full_name = $2, password_hash = $3, plan = $4,
			monthly_qr_limit = $5, qr_used_this_month = $6, top_up_count = $7,
			limit_reset_date = $8, total_spent_cents = $9, updated_at = $10
		WHERE id = $11
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.FullName, u.PasswordHash, u.Plan,
		u.MonthlyQrLimit, u.QrUsedThisMonth, u.TopUpCount,
		u.LimitResetDate.Unix(), u.TotalSpentCents, u.UpdatedAt.Unix(),
		u.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// ConsumeCredit atomically claims one generation credit. The WHERE
// clause makes check and increment a single statement, so two requests
// racing for the last credit cannot both succeed.
func (r *UserRepository) ConsumeCredit(ctx context.Context, id int64) (*user.User, bool, error) {
	query := `
		UPDATE users
		SET qr_used_this_month = qr_used_this_month + 1, updated_at = $2
		WHERE id = $1 AND qr_used_this_month < monthly_qr_limit
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id, time.Now().Unix()))
	if err == nil {
		return u, true, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, errors.DatabaseError("Failed to consume credit", err)
	}

	// No row updated: either the user is missing or the limit is reached
	current, gerr := r.GetByID(ctx, id)
	if gerr != nil {
		return nil, false, gerr
	}
	return current, false, nil
}

// RefundCredit gives back one consumed credit after a failed generation
func (r *UserRepository) RefundCredit(ctx context.Context, id int64) error {
	query := `
		UPDATE users
		SET qr_used_this_month = qr_used_this_month - 1, updated_at = $2
		WHERE id = $1 AND qr_used_this_month > 0
	`

	if _, err := r.db.ExecContext(ctx, query, id, time.Now().Unix()); err != nil {
		return errors.DatabaseError("Failed to refund credit", err)
	}
	return nil
}

// ResetUsage zeroes the monthly counter for one user
func (r *UserRepository) ResetUsage(ctx context.Context, id int64, nextReset time.Time) error {
	query := `
		UPDATE users
		SET qr_used_this_month = 0, limit_reset_date = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, nextReset.Unix(), time.Now().Unix())
	if err != nil {
		return errors.DatabaseError("Failed to reset usage", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}

	if rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// ResetAllDue zeroes counters for every user whose reset date has passed
func (r *UserRepository) ResetAllDue(ctx context.Context, now, nextReset time.Time) (int64, error) {
	query := `
		UPDATE users
		SET qr_used_this_month = 0, limit_reset_date = $2, updated_at = $3
		WHERE limit_reset_date <= $1
	`

	result, err := r.db.ExecContext(ctx, query, now.Unix(), nextReset.Unix(), time.Now().Unix())
	if err != nil {
		return 0, errors.DatabaseError("Failed to reset monthly usage", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}

	return rows, nil
}
