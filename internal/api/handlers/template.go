package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/RomanDenysov/qr-payment-sk/internal/api/dto"
	"github.com/RomanDenysov/qr-payment-sk/internal/api/middleware"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/template"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/utils"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/validator"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
)

// TemplateHandler handles payment template requests
type TemplateHandler struct {
	templates *services.TemplateService
	logger    *logger.Logger
	validator *validator.Validator
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(
	templates *services.TemplateService,
	log *logger.Logger,
	val *validator.Validator,
) *TemplateHandler {
	return &TemplateHandler{
		templates: templates,
		logger:    log,
		validator: val,
	}
}

// Create creates a payment template
// @Summary Create a template
// @Description Create a reusable payment template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTemplateRequest true "Template details"
// @Success 201 {object} template.Template "Template created"
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Router /templates [post]
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	var req dto.CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	created, err := h.templates.Create(r.Context(), &template.Template{
		UserID:      userID,
		Name:        req.Name,
		IBAN:        req.IBAN,
		AmountCents: req.AmountCents,
		Description: req.Description,
	})
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, created)
}

// List returns the caller's active templates
// @Summary List templates
// @Description List the caller's active payment templates
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Success 200 {array} template.Template "Templates"
// @Router /templates [get]
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	list, err := h.templates.List(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, list)
}

// Get returns one template
// @Summary Get a template
// @Description Get one payment template by ID
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} template.Template "Template"
// @Failure 404 {object} utils.ErrorResponse "Not found"
// @Router /templates/{id} [get]
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	id, err := templateID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	t, err := h.templates.GetByID(r.Context(), userID, id)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, t)
}

// Update updates a template
// @Summary Update a template
// @Description Update a payment template's fields
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Param request body dto.UpdateTemplateRequest true "Template details"
// @Success 200 {object} template.Template "Template updated"
// @Failure 404 {object} utils.ErrorResponse "Not found"
// @Router /templates/{id} [put]
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	id, err := templateID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	var req dto.UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", validationErrs))
		return
	}

	updated, err := h.templates.Update(r.Context(), &template.Template{
		ID:          id,
		UserID:      userID,
		Name:        req.Name,
		IBAN:        req.IBAN,
		AmountCents: req.AmountCents,
		Description: req.Description,
	})
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, updated)
}

// Delete soft-deletes a template
// @Summary Delete a template
// @Description Deactivate a payment template
// @Tags Templates
// @Produce json
// @Security BearerAuth
// @Param id path int true "Template ID"
// @Success 200 {object} utils.SuccessResponse "Template deleted"
// @Failure 404 {object} utils.ErrorResponse "Not found"
// @Router /templates/{id} [delete]
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	id, err := templateID(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	if err := h.templates.Delete(r.Context(), userID, id); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Template deleted", nil)
}

func templateID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.BadRequest("Invalid template ID")
	}
	return id, nil
}
