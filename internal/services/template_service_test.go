package services

import (
	"context"
	"testing"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/template"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/testutil"
)

func TestTemplateService_Create(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    template.Template
		wantErr bool
	}{
		{
			name: "valid template",
			tmpl: template.Template{UserID: 1, Name: "Haircut", IBAN: testIBAN, AmountCents: 2500},
		},
		{
			name: "iban with spaces is normalized",
			tmpl: template.Template{UserID: 1, Name: "Rent", IBAN: "SK89 0200 0000 0000 2660 0007", AmountCents: 45000},
		},
		{
			name:    "missing name",
			tmpl:    template.Template{UserID: 1, IBAN: testIBAN},
			wantErr: true,
		},
		{
			name:    "invalid iban",
			tmpl:    template.Template{UserID: 1, Name: "Bad", IBAN: "SK00"},
			wantErr: true,
		},
		{
			name:    "negative amount",
			tmpl:    template.Template{UserID: 1, Name: "Bad", IBAN: testIBAN, AmountCents: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := testutil.NewMockTemplateRepository()
			service := NewTemplateService(repo, newTestLogger())

			created, err := service.Create(context.Background(), &tt.tmpl)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if created.ID == 0 {
				t.Error("Create() did not assign an ID")
			}
			if !created.IsActive {
				t.Error("Create() template is not active")
			}
			if created.IBAN != testIBAN {
				t.Errorf("Create() iban = %q, want normalized %q", created.IBAN, testIBAN)
			}
		})
	}
}

func TestTemplateService_Lifecycle(t *testing.T) {
	repo := testutil.NewMockTemplateRepository()
	service := NewTemplateService(repo, newTestLogger())
	ctx := context.Background()

	created, err := service.Create(ctx, &template.Template{
		UserID: 1, Name: "Haircut", IBAN: testIBAN, AmountCents: 2500,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Another user cannot see it
	if _, err := service.GetByID(ctx, 2, created.ID); err == nil {
		t.Error("GetByID() for another user should fail")
	}

	created.Name = "Haircut deluxe"
	created.AmountCents = 3000
	updated, err := service.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Haircut deluxe" || updated.AmountCents != 3000 {
		t.Errorf("Update() = %+v", updated)
	}

	list, err := service.List(ctx, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List() len = %d, want 1", len(list))
	}

	if err := service.Delete(ctx, 1, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Soft-deleted templates disappear from reads
	if _, err := service.GetByID(ctx, 1, created.ID); err == nil {
		t.Error("GetByID() after delete should fail")
	}
	list, _ = service.List(ctx, 1)
	if len(list) != 0 {
		t.Errorf("List() after delete len = %d, want 0", len(list))
	}

	// Deleting twice reports not found
	err = service.Delete(ctx, 1, created.ID)
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Errorf("Delete() twice error = %v, want not found", err)
	}
}
