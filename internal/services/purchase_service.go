package services

import (
	"context"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/purchase"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/limits"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/metrics"
)

// TopUpResult reports a completed top-up. BonusCredits is the advertised
// first-purchase bonus, shown to the caller; it does not change the
// stored limit.
type TopUpResult struct {
	Purchase     *purchase.Purchase `json:"purchase"`
	Usage        *user.Usage        `json:"usage"`
	BonusCredits int                `json:"bonus_credits,omitempty"`
}

// PurchaseService applies limit-changing purchases and keeps the audit
// trail
type PurchaseService struct {
	users     user.Repository
	purchases purchase.Repository
	logger    *logger.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(users user.Repository, purchases purchase.Repository, log *logger.Logger) *PurchaseService {
	return &PurchaseService{
		users:     users,
		purchases: purchases,
		logger:    log,
	}
}

// PurchaseTopUp moves the user one step up the limit staircase. The step
// is permanent; monthly resets only zero the counter, never the limit.
func (s *PurchaseService) PurchaseTopUp(ctx context.Context, userID int64, paymentRef string) (*TopUpResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.Plan == user.PlanStarter {
		return nil, errors.BadRequest("Subscription already includes the maximum limit")
	}

	newLimit, ok := limits.NextLimit(u.TopUpCount)
	if !ok {
		return nil, errors.BadRequest("Maximum monthly limit already reached")
	}

	firstTopUp := u.TopUpCount == 0

	p, err := s.purchases.RecordTopUp(ctx, userID, u.MonthlyQrLimit, newLimit, purchase.TopUpPriceCents, paymentRef)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to record top-up")
		return nil, err
	}

	metrics.RecordPurchase(purchase.KindTopUp)
	s.logger.WithFields(map[string]interface{}{
		"user_id":   userID,
		"new_limit": newLimit,
	}).Info("Top-up purchased")

	updated, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &TopUpResult{
		Purchase: p,
		Usage:    usageSnapshot(updated),
	}
	if firstTopUp {
		result.BonusCredits = limits.FirstTopUpBonus
	}
	return result, nil
}

// Subscribe switches the user to the starter plan with its flat limit
func (s *PurchaseService) Subscribe(ctx context.Context, userID int64, paymentRef string) (*TopUpResult, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.Plan == user.PlanStarter {
		return nil, errors.Conflict("Subscription is already active")
	}

	p, err := s.purchases.RecordSubscription(ctx, userID, u.MonthlyQrLimit, limits.SubscriptionLimit,
		user.PlanStarter, purchase.SubscriptionPriceCents, paymentRef)
	if err != nil {
		s.logger.ErrorWithErr(err, "Failed to record subscription")
		return nil, err
	}

	metrics.RecordPurchase(purchase.KindSubscription)
	s.logger.With("user_id", userID).Info("Subscription activated")

	updated, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &TopUpResult{
		Purchase: p,
		Usage:    usageSnapshot(updated),
	}, nil
}

// CancelSubscription returns the user to the free plan. The limit falls
// back to the staircase step their past top-ups earned; usage already
// spent this month stays spent.
func (s *PurchaseService) CancelSubscription(ctx context.Context, userID int64) (*user.Usage, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if u.Plan != user.PlanStarter {
		return nil, errors.BadRequest("No active subscription")
	}

	u.Plan = user.PlanFree
	u.MonthlyQrLimit = limits.LimitFor(u.TopUpCount)

	if err := s.users.Update(ctx, u); err != nil {
		s.logger.ErrorWithErr(err, "Failed to cancel subscription")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": userID,
		"limit":   u.MonthlyQrLimit,
	}).Info("Subscription cancelled")

	return usageSnapshot(u), nil
}

// History retrieves the user's purchase audit trail, newest first
func (s *PurchaseService) History(ctx context.Context, userID int64) ([]*purchase.Purchase, error) {
	return s.purchases.ListByUser(ctx, userID)
}
