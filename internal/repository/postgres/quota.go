package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/quota"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
)

// QuotaRepository implements quota.Repository
type QuotaRepository struct {
	db *sql.DB
}

// NewQuotaRepository creates a new anonymous quota repository
func NewQuotaRepository(db *sql.DB) quota.Repository {
	return &QuotaRepository{db: db}
}

// Consume counts one generation against the IP's rolling window. The
// upsert restarts the counter when the stored window has expired, so one
// statement covers first use, repeat use, and window rollover.
func (r *QuotaRepository) Consume(ctx context.Context, ip string, limit int, window time.Duration) (bool, int, error) {
	now := time.Now()
	cutoff := now.Add(-window).Unix()

	query := `
		INSERT INTO anonymous_quota (ip, used, window_start)
		VALUES ($1, 1, $2)
		ON CONFLICT (ip) DO UPDATE SET
			used = CASE WHEN anonymous_quota.window_start <= $3
				THEN 1 ELSE anonymous_quota.used + 1 END,
			window_start = CASE WHEN anonymous_quota.window_start <= $4
				THEN $5 ELSE anonymous_quota.window_start END
		RETURNING used
	`

	var used int
	err := r.db.QueryRowContext(ctx, query,
		ip, now.Unix(), cutoff, cutoff, now.Unix(),
	).Scan(&used)
	if err != nil {
		return false, 0, errors.DatabaseError("Failed to consume anonymous quota", err)
	}

	return used <= limit, used, nil
}
