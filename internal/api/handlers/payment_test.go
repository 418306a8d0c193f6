package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/api/middleware"
	"github.com/RomanDenysov/qr-payment-sk/internal/config"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/validator"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
	"github.com/RomanDenysov/qr-payment-sk/internal/testutil"
)

const testIBAN = "SK8902000000000026600007"

type paymentFixture struct {
	users   *testutil.MockUserRepository
	handler *PaymentHandler
}

func newPaymentFixture(t *testing.T, anonQuota int) *paymentFixture {
	t.Helper()
	users := testutil.NewMockUserRepository()
	generations := testutil.NewMockGenerationRepository()
	templates := testutil.NewMockTemplateRepository()
	quotaRepo := testutil.NewMockQuotaRepository()
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	usage := services.NewUsageService(users, log)
	svc := services.NewGenerationService(generations, templates, quotaRepo, usage, config.LimitsConfig{
		AnonymousQuota:  anonQuota,
		AnonymousWindow: 7 * 24 * time.Hour,
	}, log)

	return &paymentFixture{
		users:   users,
		handler: NewPaymentHandler(svc, log, validator.New()),
	}
}

func (f *paymentFixture) seedUser(t *testing.T, used, limit int) *user.User {
	t.Helper()
	u := &user.User{
		Email:          "jana@example.sk",
		PasswordHash:   "x",
		Plan:           user.PlanFree,
		MonthlyQrLimit: limit,
		LimitResetDate: time.Now().AddDate(0, 1, 0),
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	u.QrUsedThisMonth = used
	if err := f.users.Update(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func authedRequest(method, target string, body []byte, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestPaymentHandler_Generate(t *testing.T) {
	f := newPaymentFixture(t, 10)
	u := f.seedUser(t, 0, 50)

	body, _ := json.Marshal(map[string]interface{}{
		"iban":            testIBAN,
		"amount_cents":    2500,
		"variable_symbol": "1234567890",
		"note":            "Strih vlasov",
	})

	rr := httptest.NewRecorder()
	f.handler.Generate(rr, authedRequest(http.MethodPost, "/api/v1/payments/generate", body, u.ID))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Payload string      `json:"payload"`
			QRCode  string      `json:"qr_code"`
			Usage   *user.Usage `json:"usage"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !resp.Success {
		t.Error("success = false")
	}
	if resp.Data.Payload == "" {
		t.Error("payload is empty")
	}
	if resp.Data.QRCode == "" {
		t.Error("qr_code is empty")
	}
	if resp.Data.Usage == nil || resp.Data.Usage.Used != 1 {
		t.Errorf("usage = %+v, want used=1", resp.Data.Usage)
	}
}

func TestPaymentHandler_Generate_LimitExceeded(t *testing.T) {
	f := newPaymentFixture(t, 10)
	u := f.seedUser(t, 50, 50)

	body, _ := json.Marshal(map[string]interface{}{
		"iban":         testIBAN,
		"amount_cents": 1000,
	})

	rr := httptest.NewRecorder()
	f.handler.Generate(rr, authedRequest(http.MethodPost, "/api/v1/payments/generate", body, u.ID))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Details struct {
				Used  int `json:"used"`
				Limit int `json:"limit"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if resp.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error code = %s", resp.Error.Code)
	}
	if resp.Error.Details.Used != 50 || resp.Error.Details.Limit != 50 {
		t.Errorf("details = %+v, want usage snapshot", resp.Error.Details)
	}
}

func TestPaymentHandler_Generate_Validation(t *testing.T) {
	f := newPaymentFixture(t, 10)
	u := f.seedUser(t, 0, 50)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{
			name: "invalid iban",
			body: map[string]interface{}{"iban": "XX123", "amount_cents": 100},
		},
		{
			name: "bad variable symbol",
			body: map[string]interface{}{"iban": testIBAN, "amount_cents": 100, "variable_symbol": "abc"},
		},
		{
			name: "bad due date",
			body: map[string]interface{}{"iban": testIBAN, "amount_cents": 100, "due_date": "31-12-2025"},
		},
		{
			name: "amount above maximum",
			body: map[string]interface{}{"iban": testIBAN, "amount_cents": 100_000_001},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			rr := httptest.NewRecorder()
			f.handler.Generate(rr, authedRequest(http.MethodPost, "/api/v1/payments/generate", body, u.ID))

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestPaymentHandler_Generate_Anonymous(t *testing.T) {
	f := newPaymentFixture(t, 1)

	body, _ := json.Marshal(map[string]interface{}{
		"iban":         testIBAN,
		"amount_cents": 1500,
	})

	// No user in context: the IP quota applies
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/generate", bytes.NewReader(body))
	req.RemoteAddr = "203.0.113.7:51234"
	rr := httptest.NewRecorder()
	f.handler.Generate(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}

	// Quota of one is now spent
	req = httptest.NewRequest(http.MethodPost, "/api/v1/payments/generate", bytes.NewReader(body))
	req.RemoteAddr = "203.0.113.7:51235"
	rr = httptest.NewRecorder()
	f.handler.Generate(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429: %s", rr.Code, rr.Body.String())
	}
}

func TestPaymentHandler_Decode(t *testing.T) {
	f := newPaymentFixture(t, 10)
	u := f.seedUser(t, 0, 50)

	// Generate first, then decode the produced payload
	body, _ := json.Marshal(map[string]interface{}{
		"iban":            testIBAN,
		"amount_cents":    2500,
		"variable_symbol": "1234567890",
	})
	rr := httptest.NewRecorder()
	f.handler.Generate(rr, authedRequest(http.MethodPost, "/api/v1/payments/generate", body, u.ID))
	if rr.Code != http.StatusCreated {
		t.Fatalf("generate status = %d", rr.Code)
	}

	var genResp struct {
		Data struct {
			Payload string `json:"payload"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&genResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	decodeBody, _ := json.Marshal(map[string]string{"payload": genResp.Data.Payload})
	rr = httptest.NewRecorder()
	f.handler.Decode(rr, httptest.NewRequest(http.MethodPost, "/api/v1/payments/decode", bytes.NewReader(decodeBody)))

	if rr.Code != http.StatusOK {
		t.Fatalf("decode status = %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data struct {
			IBAN           string `json:"iban"`
			AmountCents    int64  `json:"amount_cents"`
			VariableSymbol string `json:"variable_symbol"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.IBAN != testIBAN || resp.Data.AmountCents != 2500 || resp.Data.VariableSymbol != "1234567890" {
		t.Errorf("decoded = %+v", resp.Data)
	}

	// Garbage payload is a 400
	garbage, _ := json.Marshal(map[string]string{"payload": "not-bysquare"})
	rr = httptest.NewRecorder()
	f.handler.Decode(rr, httptest.NewRequest(http.MethodPost, "/api/v1/payments/decode", bytes.NewReader(garbage)))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("garbage decode status = %d, want 400", rr.Code)
	}
}
