package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RomanDenysov/qr-payment-sk/internal/api/dto"
	"github.com/RomanDenysov/qr-payment-sk/internal/api/middleware"
	"github.com/RomanDenysov/qr-payment-sk/internal/bysquare"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/utils"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/validator"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
)

// PaymentHandler handles QR payment generation requests
type PaymentHandler struct {
	generations *services.GenerationService
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(
	generations *services.GenerationService,
	log *logger.Logger,
	val *validator.Validator,
) *PaymentHandler {
	return &PaymentHandler{
		generations: generations,
		logger:      log,
		validator:   val,
	}
}

// Generate handles QR generation. Authenticated callers spend account
// credits; anonymous callers fall back to the per-IP quota.
// @Summary Generate a QR payment
// @Description Encode a payment as a BySquare QR code
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "Payment details"
// @Success 201 {object} dto.GenerateResponse "QR payment generated"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 429 {object} utils.ErrorResponse "Limit exceeded"
// @Router /payments/generate [post]
func (h *PaymentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	svcReq, err := toServiceRequest(req)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	var result *services.GenerateResult
	if userID, ok := middleware.GetUserID(r); ok {
		result, err = h.generations.Generate(r.Context(), userID, svcReq)
	} else {
		result, err = h.generations.GenerateAnonymous(r.Context(), middleware.ClientIP(r), svcReq)
	}
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.GenerateResponse{
		ID:             result.Generation.ID,
		Payload:        result.Generation.Payload,
		QRCode:         result.PNGDataURL,
		IBAN:           result.Generation.IBAN,
		AmountCents:    result.Generation.AmountCents,
		VariableSymbol: result.Generation.VariableSymbol,
		Note:           result.Generation.Note,
		CreatedAt:      result.Generation.CreatedAt,
		Usage:          result.Usage,
	})
}

// Decode handles decoding of an existing BySquare payload
// @Summary Decode a BySquare payload
// @Description Decode a BySquare string back into payment fields
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body dto.DecodeRequest true "Encoded payload"
// @Success 200 {object} dto.DecodeResponse "Decoded payment"
// @Failure 400 {object} utils.ErrorResponse "Invalid payload"
// @Router /payments/decode [post]
func (h *PaymentHandler) Decode(w http.ResponseWriter, r *http.Request) {
	var req dto.DecodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	p, err := bysquare.Decode(req.Payload)
	if err != nil {
		utils.WriteError(w, errors.BadRequest("Payload is not a valid BySquare document"))
		return
	}

	resp := dto.DecodeResponse{
		IBAN:            p.IBAN,
		AmountCents:     p.AmountCents,
		VariableSymbol:  p.VariableSymbol,
		ConstantSymbol:  p.ConstantSymbol,
		SpecificSymbol:  p.SpecificSymbol,
		Note:            p.Note,
		BeneficiaryName: p.BeneficiaryName,
	}
	if !p.DueDate.IsZero() {
		resp.DueDate = p.DueDate.Format("2006-01-02")
	}

	utils.WriteSuccess(w, http.StatusOK, resp)
}

// Get returns one generation from the caller's history
// @Summary Get a generation
// @Description Get one QR generation by ID
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Generation ID"
// @Success 200 {object} payment.Generation "Generation"
// @Failure 404 {object} utils.ErrorResponse "Not found"
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	id := chi.URLParam(r, "id")
	g, err := h.generations.GetByID(r.Context(), userID, id)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, g)
}

// List returns a page of the caller's generation history
// @Summary List generations
// @Description List the caller's QR generation history, newest first
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.GenerationListResponse "History page"
// @Router /payments [get]
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := h.generations.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.GenerationListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// toServiceRequest maps the transport request onto the service request,
// parsing the optional due date
func toServiceRequest(req dto.GenerateRequest) (services.GenerateRequest, error) {
	svcReq := services.GenerateRequest{
		IBAN:            req.IBAN,
		AmountCents:     req.AmountCents,
		VariableSymbol:  req.VariableSymbol,
		ConstantSymbol:  req.ConstantSymbol,
		SpecificSymbol:  req.SpecificSymbol,
		Note:            req.Note,
		BeneficiaryName: req.BeneficiaryName,
		TemplateID:      req.TemplateID,
	}

	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return svcReq, errors.BadRequest("Due date must be formatted as YYYY-MM-DD")
		}
		svcReq.DueDate = due
	}

	return svcReq, nil
}
