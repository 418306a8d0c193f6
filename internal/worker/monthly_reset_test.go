package worker

import (
	"context"
	"testing"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
	"github.com/RomanDenysov/qr-payment-sk/internal/testutil"
)

func TestNewMonthlyReset_Schedule(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	usage := services.NewUsageService(testutil.NewMockUserRepository(), log)

	if _, err := NewMonthlyReset(usage, "0 4 1 * *", log); err != nil {
		t.Errorf("NewMonthlyReset() valid schedule error = %v", err)
	}
	if _, err := NewMonthlyReset(usage, "not a schedule", log); err == nil {
		t.Error("NewMonthlyReset() expected error for invalid schedule")
	}
}

func TestMonthlyReset_StartCatchesUp(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	users := testutil.NewMockUserRepository()
	usage := services.NewUsageService(users, log)

	overdue := &user.User{
		Email:          "overdue@example.sk",
		PasswordHash:   "x",
		Plan:           user.PlanFree,
		MonthlyQrLimit: 50,
		LimitResetDate: time.Now().Add(-24 * time.Hour),
	}
	if err := users.Create(context.Background(), overdue); err != nil {
		t.Fatalf("seed: %v", err)
	}
	overdue.QrUsedThisMonth = 31
	if err := users.Update(context.Background(), overdue); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w, err := NewMonthlyReset(usage, "0 4 1 * *", log)
	if err != nil {
		t.Fatalf("NewMonthlyReset() error = %v", err)
	}

	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	u, err := users.GetByID(context.Background(), overdue.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if u.QrUsedThisMonth != 0 {
		t.Errorf("catch-up did not reset usage, used = %d", u.QrUsedThisMonth)
	}
	if !u.LimitResetDate.After(time.Now()) {
		t.Errorf("reset date was not advanced: %v", u.LimitResetDate)
	}
}
