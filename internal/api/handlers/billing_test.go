package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/limits"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/validator"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
	"github.com/RomanDenysov/qr-payment-sk/internal/testutil"
)

type billingFixture struct {
	users   *testutil.MockUserRepository
	handler *BillingHandler
}

func newBillingFixture(t *testing.T) (*billingFixture, *user.User) {
	t.Helper()
	users := testutil.NewMockUserRepository()
	purchases := testutil.NewMockPurchaseRepository(users)
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	u := &user.User{
		Email:          "jana@example.sk",
		PasswordHash:   "x",
		Plan:           user.PlanFree,
		MonthlyQrLimit: limits.DefaultMonthlyLimit,
		LimitResetDate: time.Now().AddDate(0, 1, 0),
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := services.NewPurchaseService(users, purchases, log)
	userSvc := services.NewUserService(users, 4, log)
	return &billingFixture{
		users:   users,
		handler: NewBillingHandler(svc, userSvc, log, validator.New()),
	}, u
}

func TestBillingHandler_TopUp(t *testing.T) {
	f, u := newBillingFixture(t)

	rr := httptest.NewRecorder()
	f.handler.TopUp(rr, authedRequest(http.MethodPost, "/api/v1/billing/topup", nil, u.ID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data struct {
			Usage struct {
				Limit      int `json:"limit"`
				TopUpCount int `json:"topUpCount"`
			} `json:"usage"`
			BonusCredits int `json:"bonus_credits"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Data.Usage.Limit != limits.Progression[1] {
		t.Errorf("limit = %d, want %d", resp.Data.Usage.Limit, limits.Progression[1])
	}
	if resp.Data.BonusCredits != limits.FirstTopUpBonus {
		t.Errorf("bonus = %d, want %d", resp.Data.BonusCredits, limits.FirstTopUpBonus)
	}
}

func TestBillingHandler_TopUp_Unauthorized(t *testing.T) {
	f, _ := newBillingFixture(t)

	rr := httptest.NewRecorder()
	f.handler.TopUp(rr, httptest.NewRequest(http.MethodPost, "/api/v1/billing/topup", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}

func TestBillingHandler_Options(t *testing.T) {
	f, u := newBillingFixture(t)

	rr := httptest.NewRecorder()
	f.handler.Options(rr, authedRequest(http.MethodGet, "/api/v1/billing/options", nil, u.ID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data []struct {
			Kind         string `json:"kind"`
			NewLimit     int    `json:"new_limit"`
			PriceCents   int64  `json:"price_cents"`
			BonusCredits int    `json:"bonus_credits"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.Data) != 2 {
		t.Fatalf("options = %d, want top-up and subscription", len(resp.Data))
	}
	if resp.Data[0].Kind != "topup" || resp.Data[0].NewLimit != limits.Progression[1] {
		t.Errorf("first option = %+v", resp.Data[0])
	}
	if resp.Data[0].BonusCredits != limits.FirstTopUpBonus {
		t.Errorf("first top-up should advertise the bonus")
	}
	if resp.Data[1].Kind != "subscription" || resp.Data[1].NewLimit != limits.SubscriptionLimit {
		t.Errorf("second option = %+v", resp.Data[1])
	}
}

func TestBillingHandler_SubscribeAndCancel(t *testing.T) {
	f, u := newBillingFixture(t)

	rr := httptest.NewRecorder()
	f.handler.Subscribe(rr, authedRequest(http.MethodPost, "/api/v1/billing/subscribe", nil, u.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("subscribe status = %d: %s", rr.Code, rr.Body.String())
	}

	// Subscribed users see no upgrade options
	rr = httptest.NewRecorder()
	f.handler.Options(rr, authedRequest(http.MethodGet, "/api/v1/billing/options", nil, u.ID))
	var optResp struct {
		Data []interface{} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&optResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(optResp.Data) != 0 {
		t.Errorf("options while subscribed = %d, want 0", len(optResp.Data))
	}

	rr = httptest.NewRecorder()
	f.handler.CancelSubscription(rr, authedRequest(http.MethodDelete, "/api/v1/billing/subscribe", nil, u.ID))
	if rr.Code != http.StatusOK {
		t.Fatalf("cancel status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data struct {
			Plan  string `json:"plan"`
			Limit int    `json:"limit"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Plan != user.PlanFree || resp.Data.Limit != limits.DefaultMonthlyLimit {
		t.Errorf("after cancel = %+v", resp.Data)
	}
}

func TestUsageHandler_Get(t *testing.T) {
	users := testutil.NewMockUserRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	u := &user.User{
		Email:          "jana@example.sk",
		PasswordHash:   "x",
		Plan:           user.PlanFree,
		MonthlyQrLimit: 50,
		LimitResetDate: time.Now().AddDate(0, 1, 0),
	}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	handler := NewUsageHandler(services.NewUsageService(users, log), log)

	rr := httptest.NewRecorder()
	handler.Get(rr, authedRequest(http.MethodGet, "/api/v1/usage", nil, u.ID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data user.Usage `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Limit != 50 || resp.Data.Remaining != 50 || resp.Data.Plan != user.PlanFree {
		t.Errorf("usage = %+v", resp.Data)
	}

	// Unauthenticated request is rejected
	rr = httptest.NewRecorder()
	handler.Get(rr, httptest.NewRequest(http.MethodGet, "/api/v1/usage", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rr.Code)
	}
}
