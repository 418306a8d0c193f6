package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/RomanDenysov/qr-payment-sk/internal/bysquare"
	"github.com/RomanDenysov/qr-payment-sk/internal/config"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/template"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/testutil"
)

const testIBAN = "SK8902000000000026600007"

type generationFixture struct {
	users       *testutil.MockUserRepository
	generations *testutil.MockGenerationRepository
	templates   *testutil.MockTemplateRepository
	quota       *testutil.MockQuotaRepository
	service     *GenerationService
}

func newGenerationFixture(anonQuota int) *generationFixture {
	users := testutil.NewMockUserRepository()
	generations := testutil.NewMockGenerationRepository()
	templates := testutil.NewMockTemplateRepository()
	quotaRepo := testutil.NewMockQuotaRepository()
	log := newTestLogger()

	usage := NewUsageService(users, log)
	service := NewGenerationService(generations, templates, quotaRepo, usage, config.LimitsConfig{
		AnonymousQuota:  anonQuota,
		AnonymousWindow: 7 * 24 * time.Hour,
	}, log)

	return &generationFixture{
		users:       users,
		generations: generations,
		templates:   templates,
		quota:       quotaRepo,
		service:     service,
	}
}

func TestGenerationService_Generate(t *testing.T) {
	f := newGenerationFixture(10)
	u := seedUser(t, f.users, 0, 50)
	ctx := context.Background()

	result, err := f.service.Generate(ctx, u.ID, GenerateRequest{
		IBAN:           testIBAN,
		AmountCents:    2500,
		VariableSymbol: "1234567890",
		Note:           "Strih vlasov",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.Usage.Used != 1 {
		t.Errorf("Generate() used = %d, want 1", result.Usage.Used)
	}
	if !strings.HasPrefix(result.PNGDataURL, "data:image/png;base64,") {
		t.Errorf("Generate() image is not a PNG data URL")
	}

	// The stored payload must decode back to the same payment
	p, err := bysquare.Decode(result.Generation.Payload)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if p.IBAN != testIBAN {
		t.Errorf("decoded IBAN = %q, want %q", p.IBAN, testIBAN)
	}
	if p.AmountCents != 2500 {
		t.Errorf("decoded amount = %d, want 2500", p.AmountCents)
	}
	if p.VariableSymbol != "1234567890" {
		t.Errorf("decoded variable symbol = %q", p.VariableSymbol)
	}
	if p.Note != "Strih vlasov" {
		t.Errorf("decoded note = %q", p.Note)
	}
}

func TestGenerationService_Generate_LimitReached(t *testing.T) {
	f := newGenerationFixture(10)
	u := seedUser(t, f.users, 50, 50)
	ctx := context.Background()

	_, err := f.service.Generate(ctx, u.ID, GenerateRequest{
		IBAN:        testIBAN,
		AmountCents: 1000,
	})
	if err == nil {
		t.Fatal("Generate() expected rate limit error")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeRateLimit {
		t.Fatalf("Generate() error = %v, want rate limited", err)
	}

	// A denied request must not leave a record behind
	if len(f.generations.Generations) != 0 {
		t.Errorf("denied generation was persisted")
	}
}

func TestGenerationService_Generate_InvalidInput(t *testing.T) {
	f := newGenerationFixture(10)
	u := seedUser(t, f.users, 0, 50)
	ctx := context.Background()

	tests := []struct {
		name string
		req  GenerateRequest
	}{
		{
			name: "invalid iban",
			req:  GenerateRequest{IBAN: "SK0000", AmountCents: 100},
		},
		{
			name: "wrong country",
			req:  GenerateRequest{IBAN: "CZ6508000000192000145399", AmountCents: 100},
		},
		{
			name: "zero amount",
			req:  GenerateRequest{IBAN: testIBAN, AmountCents: 0},
		},
		{
			name: "bad variable symbol",
			req:  GenerateRequest{IBAN: testIBAN, AmountCents: 100, VariableSymbol: "12345678901"},
		},
		{
			name: "amount above maximum",
			req:  GenerateRequest{IBAN: testIBAN, AmountCents: 100_000_001},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.Generate(ctx, u.ID, tt.req)
			appErr, ok := err.(*errors.AppError)
			if !ok || appErr.Code != errors.ErrCodeBadRequest {
				t.Errorf("Generate() error = %v, want bad request", err)
			}
		})
	}

	// Rejected input must not consume a credit
	usage, _ := NewUsageService(f.users, newTestLogger()).Usage(ctx, u.ID)
	if usage.Used != 0 {
		t.Errorf("invalid input consumed %d credits", usage.Used)
	}
}

func TestGenerationService_Generate_FromTemplate(t *testing.T) {
	f := newGenerationFixture(10)
	u := seedUser(t, f.users, 0, 50)
	ctx := context.Background()

	tmpl := &template.Template{
		UserID:      u.ID,
		Name:        "Haircut",
		IBAN:        testIBAN,
		AmountCents: 2500,
		Description: "Strih vlasov",
	}
	if err := f.templates.Create(ctx, tmpl); err != nil {
		t.Fatalf("template create: %v", err)
	}

	result, err := f.service.Generate(ctx, u.ID, GenerateRequest{TemplateID: &tmpl.ID})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.Generation.AmountCents != 2500 {
		t.Errorf("Generate() amount = %d, want template amount", result.Generation.AmountCents)
	}
	if result.Generation.TemplateID == nil || *result.Generation.TemplateID != tmpl.ID {
		t.Errorf("Generate() template reference missing")
	}
	if result.Generation.VariableSymbol == "" {
		t.Error("Generate() expected an auto-generated variable symbol")
	}

	stored, _ := f.templates.GetByID(ctx, u.ID, tmpl.ID)
	if stored.UsageCount != 1 {
		t.Errorf("template usage count = %d, want 1", stored.UsageCount)
	}
}

func TestGenerationService_GenerateAnonymous(t *testing.T) {
	f := newGenerationFixture(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		result, err := f.service.GenerateAnonymous(ctx, "203.0.113.7", GenerateRequest{
			IBAN:        testIBAN,
			AmountCents: 1500,
		})
		if err != nil {
			t.Fatalf("GenerateAnonymous() #%d error = %v", i+1, err)
		}
		if result.Generation.UserID != nil {
			t.Error("GenerateAnonymous() must not attach a user")
		}
		if result.Usage != nil {
			t.Error("GenerateAnonymous() must not report account usage")
		}
	}

	// Third request from the same IP is over quota
	_, err := f.service.GenerateAnonymous(ctx, "203.0.113.7", GenerateRequest{
		IBAN:        testIBAN,
		AmountCents: 1500,
	})
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeRateLimit {
		t.Fatalf("GenerateAnonymous() error = %v, want rate limited", err)
	}

	// A different IP still has its own quota
	if _, err := f.service.GenerateAnonymous(ctx, "198.51.100.9", GenerateRequest{
		IBAN:        testIBAN,
		AmountCents: 1500,
	}); err != nil {
		t.Errorf("GenerateAnonymous() from fresh IP error = %v", err)
	}
}

func TestGenerationService_ListByUser(t *testing.T) {
	f := newGenerationFixture(10)
	u := seedUser(t, f.users, 0, 50)
	ctx := context.Background()

	symbols := []string{"1000000001", "1000000002", "1000000003"}
	for _, vs := range symbols {
		if _, err := f.service.Generate(ctx, u.ID, GenerateRequest{
			IBAN:           testIBAN,
			AmountCents:    1000,
			VariableSymbol: vs,
		}); err != nil {
			t.Fatalf("Generate(%s) error = %v", vs, err)
		}
	}

	list, total, err := f.service.ListByUser(ctx, u.ID, 2, 0)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if total != 3 {
		t.Errorf("ListByUser() total = %d, want 3", total)
	}
	if len(list) != 2 {
		t.Errorf("ListByUser() page size = %d, want 2", len(list))
	}
	// Newest first
	if list[0].VariableSymbol != "1000000003" {
		t.Errorf("ListByUser() first = %s, want newest", list[0].VariableSymbol)
	}
}

func TestGenerationService_Generate_DuplicateSymbol(t *testing.T) {
	f := newGenerationFixture(10)
	u := seedUser(t, f.users, 0, 50)
	ctx := context.Background()

	req := GenerateRequest{
		IBAN:           testIBAN,
		AmountCents:    1000,
		VariableSymbol: "4242424242",
	}
	if _, err := f.service.Generate(ctx, u.ID, req); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err := f.service.Generate(ctx, u.ID, req)
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeConflict {
		t.Errorf("Generate() error = %v, want conflict for reused symbol", err)
	}

	// The failed attempt stored nothing, so its credit is handed back
	usage, err := f.service.usage.Usage(ctx, u.ID)
	if err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	if usage.Used != 1 {
		t.Errorf("used = %d after one success and one conflict, want 1", usage.Used)
	}
	if _, total, _ := f.generations.ListByUser(ctx, u.ID, 10, 0); total != 1 {
		t.Errorf("stored generations = %d, want 1", total)
	}
}

func TestGenerationService_GenerateAnonymous_TemplateRejected(t *testing.T) {
	f := newGenerationFixture(10)
	templateID := int64(7)

	_, err := f.service.GenerateAnonymous(context.Background(), "203.0.113.9", GenerateRequest{
		IBAN:        testIBAN,
		AmountCents: 1000,
		TemplateID:  &templateID,
	})
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeBadRequest {
		t.Errorf("GenerateAnonymous() error = %v, want bad request for template reference", err)
	}
}
