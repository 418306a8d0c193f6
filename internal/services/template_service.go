package services

import (
	"context"

	"github.com/RomanDenysov/qr-payment-sk/internal/domain/template"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/iban"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
)

// TemplateService manages reusable payment templates
type TemplateService struct {
	templates template.Repository
	logger    *logger.Logger
}

// NewTemplateService creates a new template service
func NewTemplateService(templates template.Repository, log *logger.Logger) *TemplateService {
	return &TemplateService{
		templates: templates,
		logger:    log,
	}
}

// Create creates a new template for a user
func (s *TemplateService) Create(ctx context.Context, t *template.Template) (*template.Template, error) {
	if t.Name == "" {
		return nil, errors.BadRequest("Template name is required")
	}
	if !iban.IsValidSlovak(t.IBAN) {
		return nil, errors.BadRequest("Invalid Slovak IBAN")
	}
	if t.AmountCents < 0 {
		return nil, errors.BadRequest("Amount must not be negative")
	}

	t.IBAN = iban.Normalize(t.IBAN)
	if err := s.templates.Create(ctx, t); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create template")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":     t.UserID,
		"template_id": t.ID,
	}).Info("Template created")

	return t, nil
}

// GetByID retrieves an active template scoped to its owner
func (s *TemplateService) GetByID(ctx context.Context, userID, id int64) (*template.Template, error) {
	return s.templates.GetByID(ctx, userID, id)
}

// List retrieves a user's active templates
func (s *TemplateService) List(ctx context.Context, userID int64) ([]*template.Template, error) {
	return s.templates.ListActive(ctx, userID)
}

// Update updates a template's editable fields
func (s *TemplateService) Update(ctx context.Context, t *template.Template) (*template.Template, error) {
	if t.Name == "" {
		return nil, errors.BadRequest("Template name is required")
	}
	if !iban.IsValidSlovak(t.IBAN) {
		return nil, errors.BadRequest("Invalid Slovak IBAN")
	}

	t.IBAN = iban.Normalize(t.IBAN)
	if err := s.templates.Update(ctx, t); err != nil {
		return nil, err
	}

	return s.templates.GetByID(ctx, t.UserID, t.ID)
}

// Delete soft-deletes a template. Past generations keep referencing it.
func (s *TemplateService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.templates.Deactivate(ctx, userID, id); err != nil {
		return err
	}
	s.logger.WithFields(map[string]interface{}{
		"user_id":     userID,
		"template_id": id,
	}).Info("Template deactivated")
	return nil
}
