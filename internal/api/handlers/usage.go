package handlers

import (
	"net/http"

	"github.com/RomanDenysov/qr-payment-sk/internal/api/middleware"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/utils"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
)

// UsageHandler serves the entitlement snapshot
type UsageHandler struct {
	usage  *services.UsageService
	logger *logger.Logger
}

// NewUsageHandler creates a new usage handler
func NewUsageHandler(usage *services.UsageService, log *logger.Logger) *UsageHandler {
	return &UsageHandler{
		usage:  usage,
		logger: log,
	}
}

// Get returns the caller's usage snapshot
// @Summary Current usage
// @Description Get the caller's monthly usage and limit
// @Tags Usage
// @Produce json
// @Security BearerAuth
// @Success 200 {object} user.Usage "Usage snapshot"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Router /usage [get]
func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	usage, err := h.usage.Usage(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, usage)
}

// CanGenerate reports whether a generation would currently succeed. The
// answer is advisory; the generation endpoint makes the binding check.
// @Summary Generation pre-check
// @Description Check whether a generation would currently be allowed
// @Tags Usage
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Advisory answer"
// @Failure 401 {object} utils.ErrorResponse "Unauthorized"
// @Router /usage/can-generate [get]
func (h *UsageHandler) CanGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	allowed, reason, err := h.usage.CanGenerate(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	resp := map[string]interface{}{"allowed": allowed}
	if reason != "" {
		resp["reason"] = reason
	}
	utils.WriteSuccess(w, http.StatusOK, resp)
}
