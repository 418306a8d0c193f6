package services

import (
	"context"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/limits"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/metrics"
)

// UsageService owns the monthly usage ledger: reading the entitlement
// snapshot, consuming generation credits and rolling the counters over.
type UsageService struct {
	users  user.Repository
	logger *logger.Logger
}

// NewUsageService creates a new usage service
func NewUsageService(users user.Repository, log *logger.Logger) *UsageService {
	return &UsageService{
		users:  users,
		logger: log,
	}
}

// usageSnapshot builds the entitlement snapshot for a user
func usageSnapshot(u *user.User) *user.Usage {
	remaining := u.Remaining()
	return &user.Usage{
		Used:             u.QrUsedThisMonth,
		Limit:            u.MonthlyQrLimit,
		Remaining:        remaining,
		Plan:             u.Plan,
		TopUpCount:       u.TopUpCount,
		TotalSpentCents:  u.TotalSpentCents,
		ResetDate:        u.LimitResetDate,
		IsNearLimit:      remaining > 0 && remaining <= limits.NearLimitThreshold,
		HasExceededLimit: remaining == 0,
	}
}

// Usage returns the entitlement snapshot for a user
func (s *UsageService) Usage(ctx context.Context, userID int64) (*user.Usage, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return usageSnapshot(u), nil
}

// CanGenerate reports whether a generation would currently be allowed.
// The answer is advisory; ConsumeCredit makes the binding decision.
func (s *UsageService) CanGenerate(ctx context.Context, userID int64) (bool, string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, "", err
	}
	if u.Remaining() == 0 {
		return false, "Monthly QR code limit exceeded", nil
	}
	return true, "", nil
}

// ConsumeCredit claims one generation credit. Check and increment happen
// in a single conditional update, so concurrent calls cannot spend more
// credits than the limit allows.
func (s *UsageService) ConsumeCredit(ctx context.Context, userID int64) (*user.User, error) {
	u, ok, err := s.users.ConsumeCredit(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		metrics.RecordLimitDenial(u.Plan)
		s.logger.WithFields(map[string]interface{}{
			"user_id": userID,
			"limit":   u.MonthlyQrLimit,
		}).Warn("Generation denied by monthly limit")
		return nil, errors.RateLimited("Monthly QR code limit exceeded").WithDetails(usageSnapshot(u))
	}
	return u, nil
}

// RefundCredit hands back a credit claimed by ConsumeCredit when the
// generation failed after the claim, keeping the counter honest
func (s *UsageService) RefundCredit(ctx context.Context, userID int64) error {
	if err := s.users.RefundCredit(ctx, userID); err != nil {
		return err
	}
	s.logger.With("user_id", userID).Info("Generation credit refunded")
	return nil
}

// ResetUserMonthlyUsage zeroes one user's counter, for support tooling
func (s *UsageService) ResetUserMonthlyUsage(ctx context.Context, userID int64) error {
	if err := s.users.ResetUsage(ctx, userID, firstOfNextMonth(time.Now())); err != nil {
		return err
	}
	s.logger.With("user_id", userID).Info("Monthly usage reset")
	return nil
}

// ResetAllMonthlyUsage rolls over every user whose reset date has
// passed. Re-running within the same period affects no rows, so the
// schedule and the startup catch-up can both call it safely.
func (s *UsageService) ResetAllMonthlyUsage(ctx context.Context) (int64, error) {
	now := time.Now()
	count, err := s.users.ResetAllDue(ctx, now, firstOfNextMonth(now))
	if err != nil {
		s.logger.ErrorWithErr(err, "Monthly usage reset failed")
		return 0, err
	}

	metrics.RecordMonthlyReset(count)
	s.logger.With("users", count).Info("Monthly usage reset completed")
	return count, nil
}
