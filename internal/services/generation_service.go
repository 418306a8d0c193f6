package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/RomanDenysov/qr-payment-sk/internal/bysquare"
	"github.com/RomanDenysov/qr-payment-sk/internal/config"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/payment"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/quota"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/template"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/iban"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/metrics"
)

const (
	qrImageSize = 256

	// Retries when an auto-generated variable symbol collides
	symbolRetries = 3

	// Largest accepted payment: 1,000,000 EUR in cents
	maxAmountCents = 100_000_000
)

// GenerateRequest describes one payment to encode. A template reference
// fills in IBAN and amount when the request leaves them empty.
type GenerateRequest struct {
	IBAN            string
	AmountCents     int64
	VariableSymbol  string
	ConstantSymbol  string
	SpecificSymbol  string
	Note            string
	DueDate         time.Time
	BeneficiaryName string
	TemplateID      *int64
}

// GenerateResult is the outcome of one generation: the stored record,
// the QR image as a data URL and the caller's usage after the credit
// was spent. Usage is nil for anonymous generations.
type GenerateResult struct {
	Generation *payment.Generation
	PNGDataURL string
	Usage      *user.Usage
}

// GenerationService encodes payments, spends credits and records the
// results
type GenerationService struct {
	generations payment.Repository
	templates   template.Repository
	quota       quota.Repository
	usage       *UsageService
	limits      config.LimitsConfig
	logger      *logger.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	generations payment.Repository,
	templates template.Repository,
	quotaRepo quota.Repository,
	usage *UsageService,
	limitsCfg config.LimitsConfig,
	log *logger.Logger,
) *GenerationService {
	return &GenerationService{
		generations: generations,
		templates:   templates,
		quota:       quotaRepo,
		usage:       usage,
		limits:      limitsCfg,
		logger:      log,
	}
}

// Generate encodes a payment for an authenticated user. A denied credit
// never produces a payload, and a failure after the credit was claimed
// refunds it, so the counter only ever moves for stored generations.
func (s *GenerationService) Generate(ctx context.Context, userID int64, req GenerateRequest) (*GenerateResult, error) {
	if req.TemplateID != nil {
		t, err := s.templates.GetByID(ctx, userID, *req.TemplateID)
		if err != nil {
			return nil, err
		}
		if req.IBAN == "" {
			req.IBAN = t.IBAN
		}
		if req.AmountCents == 0 {
			req.AmountCents = t.AmountCents
		}
		if req.Note == "" {
			req.Note = t.Description
		}
	}

	if err := validateRequest(req); err != nil {
		return nil, err
	}

	u, err := s.usage.ConsumeCredit(ctx, userID)
	if err != nil {
		return nil, err
	}

	g, png, err := s.encodeAndStore(ctx, &userID, req)
	if err != nil {
		if rerr := s.usage.RefundCredit(ctx, userID); rerr != nil {
			s.logger.ErrorWithErr(rerr, "Failed to refund credit after failed generation")
		}
		return nil, err
	}

	if req.TemplateID != nil {
		if err := s.templates.IncrementUsage(ctx, *req.TemplateID); err != nil {
			s.logger.ErrorWithErr(err, "Failed to increment template usage")
		}
	}

	metrics.RecordQrGenerated(u.Plan)
	s.logger.WithFields(map[string]interface{}{
		"user_id":       userID,
		"generation_id": g.ID,
	}).Info("QR payment generated")

	return &GenerateResult{
		Generation: g,
		PNGDataURL: png,
		Usage:      usageSnapshot(u),
	}, nil
}

// GenerateAnonymous encodes a payment for an unauthenticated caller,
// counted against the durable per-IP quota
func (s *GenerationService) GenerateAnonymous(ctx context.Context, ip string, req GenerateRequest) (*GenerateResult, error) {
	if req.TemplateID != nil {
		return nil, errors.BadRequest("Templates require an account")
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	allowed, used, err := s.quota.Consume(ctx, ip, s.limits.AnonymousQuota, s.limits.AnonymousWindow)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.RecordLimitDenial(user.PlanAnonymous)
		return nil, errors.RateLimited("Anonymous generation limit exceeded").WithDetails(map[string]interface{}{
			"used":  used,
			"limit": s.limits.AnonymousQuota,
		})
	}

	g, png, err := s.encodeAndStore(ctx, nil, req)
	if err != nil {
		return nil, err
	}

	metrics.RecordQrGenerated(user.PlanAnonymous)
	return &GenerateResult{
		Generation: g,
		PNGDataURL: png,
	}, nil
}

// GetByID retrieves one generation scoped to its owner
func (s *GenerationService) GetByID(ctx context.Context, userID int64, id string) (*payment.Generation, error) {
	return s.generations.GetByID(ctx, userID, id)
}

// ListByUser retrieves a user's generation history, newest first
func (s *GenerationService) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*payment.Generation, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.generations.ListByUser(ctx, userID, limit, offset)
}

func (s *GenerationService) encodeAndStore(ctx context.Context, userID *int64, req GenerateRequest) (*payment.Generation, string, error) {
	autoSymbol := req.VariableSymbol == ""

	var g *payment.Generation
	for attempt := 0; ; attempt++ {
		symbol := req.VariableSymbol
		if autoSymbol {
			symbol = randomVariableSymbol()
		}

		start := time.Now()
		payload, err := bysquare.Encode(bysquare.Payment{
			IBAN:            req.IBAN,
			AmountCents:     req.AmountCents,
			VariableSymbol:  symbol,
			ConstantSymbol:  req.ConstantSymbol,
			SpecificSymbol:  req.SpecificSymbol,
			Note:            req.Note,
			DueDate:         req.DueDate,
			BeneficiaryName: req.BeneficiaryName,
		})
		if err != nil {
			return nil, "", errors.QrGenerationError(err)
		}
		metrics.RecordEncodeDuration(time.Since(start))

		g = &payment.Generation{
			ID:             uuid.New().String(),
			UserID:         userID,
			TemplateID:     req.TemplateID,
			AmountCents:    req.AmountCents,
			VariableSymbol: symbol,
			Payload:        payload,
			IBAN:           iban.Normalize(req.IBAN),
			Note:           req.Note,
		}

		err = s.generations.Create(ctx, g)
		if err == nil {
			break
		}
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.ErrCodeConflict && autoSymbol && attempt < symbolRetries {
			continue
		}
		return nil, "", err
	}

	png, err := renderPNG(g.Payload)
	if err != nil {
		return nil, "", errors.QrGenerationError(err)
	}

	return g, png, nil
}

// validateRequest checks the fields the encoder cannot express errors
// for itself
func validateRequest(req GenerateRequest) error {
	if !iban.IsValidSlovak(req.IBAN) {
		return errors.BadRequest("Invalid Slovak IBAN")
	}
	if req.AmountCents <= 0 {
		return errors.BadRequest("Amount must be positive")
	}
	if req.AmountCents > maxAmountCents {
		return errors.BadRequest("Amount exceeds the maximum of 1000000 EUR")
	}
	if req.VariableSymbol != "" && !validSymbol(req.VariableSymbol) {
		return errors.BadRequest("Variable symbol must be 1 to 10 digits")
	}
	return nil
}

func validSymbol(s string) bool {
	if len(s) < 1 || len(s) > 10 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// randomVariableSymbol picks a 10-digit symbol; collisions are handled
// by the insert retry loop
func randomVariableSymbol() string {
	return fmt.Sprintf("%010d", rand.Int63n(10_000_000_000))
}

// renderPNG renders the payload as a PNG data URL
func renderPNG(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
