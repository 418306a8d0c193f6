package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/limits"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/testutil"
)

func seedUser(t *testing.T, repo *testutil.MockUserRepository, used, limit int) *user.User {
	t.Helper()
	u := &user.User{
		Email:          "jana@example.sk",
		PasswordHash:   "x",
		Plan:           user.PlanFree,
		MonthlyQrLimit: limit,
		LimitResetDate: firstOfNextMonth(time.Now()),
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	u.QrUsedThisMonth = used
	if err := repo.Update(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestUsageService_Usage(t *testing.T) {
	tests := []struct {
		name          string
		used          int
		limit         int
		wantRemaining int
		wantNear      bool
		wantExceeded  bool
	}{
		{
			name:          "fresh account",
			used:          0,
			limit:         50,
			wantRemaining: 50,
		},
		{
			name:          "near the limit",
			used:          46,
			limit:         50,
			wantRemaining: 4,
			wantNear:      true,
		},
		{
			name:          "exactly at threshold",
			used:          45,
			limit:         50,
			wantRemaining: 5,
			wantNear:      true,
		},
		{
			name:          "exhausted",
			used:          50,
			limit:         50,
			wantRemaining: 0,
			wantExceeded:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockUserRepository()
			u := seedUser(t, repo, tt.used, tt.limit)
			service := NewUsageService(repo, newTestLogger())

			usage, err := service.Usage(context.Background(), u.ID)
			if err != nil {
				t.Fatalf("Usage() error = %v", err)
			}

			if usage.Remaining != tt.wantRemaining {
				t.Errorf("Usage() remaining = %d, want %d", usage.Remaining, tt.wantRemaining)
			}
			if usage.IsNearLimit != tt.wantNear {
				t.Errorf("Usage() isNearLimit = %v, want %v", usage.IsNearLimit, tt.wantNear)
			}
			if usage.HasExceededLimit != tt.wantExceeded {
				t.Errorf("Usage() hasExceededLimit = %v, want %v", usage.HasExceededLimit, tt.wantExceeded)
			}
		})
	}
}

func TestUsageService_ConsumeCredit(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	u := seedUser(t, repo, 49, 50)
	service := NewUsageService(repo, newTestLogger())
	ctx := context.Background()

	// The last credit is granted
	updated, err := service.ConsumeCredit(ctx, u.ID)
	if err != nil {
		t.Fatalf("ConsumeCredit() error = %v", err)
	}
	if updated.QrUsedThisMonth != 50 {
		t.Errorf("ConsumeCredit() used = %d, want 50", updated.QrUsedThisMonth)
	}

	// The next request is denied with the usage snapshot attached
	_, err = service.ConsumeCredit(ctx, u.ID)
	if err == nil {
		t.Fatal("ConsumeCredit() expected rate limit error")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeRateLimit {
		t.Fatalf("ConsumeCredit() error = %v, want rate limited", err)
	}

	usage, ok := appErr.Details.(*user.Usage)
	if !ok {
		t.Fatalf("ConsumeCredit() details = %T, want *user.Usage", appErr.Details)
	}
	if !usage.HasExceededLimit || usage.Remaining != 0 {
		t.Errorf("ConsumeCredit() details = %+v, want exceeded snapshot", usage)
	}
}

// Concurrent requests racing for the last credits must never spend more
// than the limit allows.
func TestUsageService_ConsumeCredit_Concurrent(t *testing.T) {
	const workers = 20
	const limit = 5

	repo := testutil.NewMockUserRepository()
	u := seedUser(t, repo, 0, limit)
	service := NewUsageService(repo, newTestLogger())

	var wg sync.WaitGroup
	granted := make(chan struct{}, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.ConsumeCredit(context.Background(), u.ID); err == nil {
				granted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(granted)

	var count int
	for range granted {
		count++
	}
	if count != limit {
		t.Errorf("granted %d credits, want %d", count, limit)
	}

	final, err := repo.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if final.QrUsedThisMonth != limit {
		t.Errorf("final used = %d, want %d", final.QrUsedThisMonth, limit)
	}
}

func TestUsageService_CanGenerate(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	u := seedUser(t, repo, 50, 50)
	service := NewUsageService(repo, newTestLogger())

	allowed, reason, err := service.CanGenerate(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("CanGenerate() error = %v", err)
	}
	if allowed {
		t.Error("CanGenerate() = true, want false at the limit")
	}
	if reason != "Monthly QR code limit exceeded" {
		t.Errorf("CanGenerate() reason = %q", reason)
	}
}

func TestUsageService_ResetAllMonthlyUsage(t *testing.T) {
	repo := testutil.NewMockUserRepository()
	service := NewUsageService(repo, newTestLogger())
	ctx := context.Background()

	due := &user.User{
		Email:          "due@example.sk",
		PasswordHash:   "x",
		Plan:           user.PlanFree,
		MonthlyQrLimit: 150,
		LimitResetDate: time.Now().Add(-time.Hour),
	}
	if err := repo.Create(ctx, due); err != nil {
		t.Fatalf("seed: %v", err)
	}
	due.QrUsedThisMonth = 42
	due.TopUpCount = 1
	if err := repo.Update(ctx, due); err != nil {
		t.Fatalf("seed: %v", err)
	}

	notDue := seedUser(t, repo, 10, 50)

	count, err := service.ResetAllMonthlyUsage(ctx)
	if err != nil {
		t.Fatalf("ResetAllMonthlyUsage() error = %v", err)
	}
	if count != 1 {
		t.Errorf("ResetAllMonthlyUsage() count = %d, want 1", count)
	}

	u, _ := repo.GetByID(ctx, due.ID)
	if u.QrUsedThisMonth != 0 {
		t.Errorf("reset user used = %d, want 0", u.QrUsedThisMonth)
	}
	if u.MonthlyQrLimit != limits.Progression[1] {
		t.Errorf("reset must not change the limit, got %d", u.MonthlyQrLimit)
	}
	if u.TopUpCount != 1 {
		t.Errorf("reset must not change the top-up count, got %d", u.TopUpCount)
	}

	other, _ := repo.GetByID(ctx, notDue.ID)
	if other.QrUsedThisMonth != 10 {
		t.Errorf("user not yet due was reset, used = %d", other.QrUsedThisMonth)
	}

	// A second run in the same period finds nothing to do
	count, err = service.ResetAllMonthlyUsage(ctx)
	if err != nil {
		t.Fatalf("ResetAllMonthlyUsage() error = %v", err)
	}
	if count != 0 {
		t.Errorf("second run count = %d, want 0", count)
	}
}
