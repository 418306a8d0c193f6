package services

import (
	"context"
	"testing"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/limits"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/testutil"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

func TestUserService_Register(t *testing.T) {
	mockRepo := testutil.NewMockUserRepository()
	service := NewUserService(mockRepo, 4, newTestLogger())
	ctx := context.Background()

	u, err := service.Register(ctx, "jana@example.sk", "secret123", nil)
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if u.Plan != user.PlanFree {
		t.Errorf("Register() plan = %v, want %v", u.Plan, user.PlanFree)
	}
	if u.MonthlyQrLimit != limits.DefaultMonthlyLimit {
		t.Errorf("Register() limit = %d, want %d", u.MonthlyQrLimit, limits.DefaultMonthlyLimit)
	}
	if u.QrUsedThisMonth != 0 {
		t.Errorf("Register() used = %d, want 0", u.QrUsedThisMonth)
	}
	if u.TopUpCount != 0 {
		t.Errorf("Register() top_up_count = %d, want 0", u.TopUpCount)
	}
	if u.PasswordHash == "secret123" || u.PasswordHash == "" {
		t.Error("Register() stored an unhashed password")
	}

	want := firstOfNextMonth(time.Now())
	if !u.LimitResetDate.Equal(want) {
		t.Errorf("Register() reset date = %v, want %v", u.LimitResetDate, want)
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	mockRepo := testutil.NewMockUserRepository()
	service := NewUserService(mockRepo, 4, newTestLogger())
	ctx := context.Background()

	if _, err := service.Register(ctx, "jana@example.sk", "secret123", nil); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	_, err := service.Register(ctx, "jana@example.sk", "other456", nil)
	if err == nil {
		t.Fatal("Register() expected error for duplicate email")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeConflict {
		t.Errorf("Register() error = %v, want conflict", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	mockRepo := testutil.NewMockUserRepository()
	service := NewUserService(mockRepo, 4, newTestLogger())
	ctx := context.Background()

	if _, err := service.Register(ctx, "jana@example.sk", "secret123", nil); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{
			name:     "valid credentials",
			email:    "jana@example.sk",
			password: "secret123",
			wantErr:  false,
		},
		{
			name:     "wrong password",
			email:    "jana@example.sk",
			password: "wrong",
			wantErr:  true,
		},
		{
			name:     "unknown email",
			email:    "nobody@example.sk",
			password: "secret123",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := service.Authenticate(ctx, tt.email, tt.password)

			if (err != nil) != tt.wantErr {
				t.Errorf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				appErr, ok := err.(*errors.AppError)
				if !ok || appErr.Code != errors.ErrCodeUnauthorized {
					t.Errorf("Authenticate() error = %v, want unauthorized", err)
				}
				return
			}

			if u.Email != tt.email {
				t.Errorf("Authenticate() email = %v, want %v", u.Email, tt.email)
			}
		})
	}
}

func TestFirstOfNextMonth(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			name: "mid month",
			in:   time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC),
			want: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "december rolls the year",
			in:   time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
			want: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "first of month still moves forward",
			in:   time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstOfNextMonth(tt.in); !got.Equal(tt.want) {
				t.Errorf("firstOfNextMonth() = %v, want %v", got, tt.want)
			}
		})
	}
}
