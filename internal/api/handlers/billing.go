package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/RomanDenysov/qr-payment-sk/internal/api/dto"
	"github.com/RomanDenysov/qr-payment-sk/internal/api/middleware"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/purchase"
	"github.com/RomanDenysov/qr-payment-sk/internal/domain/user"
	"github.com/RomanDenysov/qr-payment-sk/internal/limits"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/errors"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/logger"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/utils"
	"github.com/RomanDenysov/qr-payment-sk/internal/pkg/validator"
	"github.com/RomanDenysov/qr-payment-sk/internal/services"
)

// BillingHandler handles limit purchases and subscriptions
type BillingHandler struct {
	purchases   *services.PurchaseService
	userService user.Service
	logger      *logger.Logger
	validator   *validator.Validator
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(
	purchases *services.PurchaseService,
	userService user.Service,
	log *logger.Logger,
	val *validator.Validator,
) *BillingHandler {
	return &BillingHandler{
		purchases:   purchases,
		userService: userService,
		logger:      log,
		validator:   val,
	}
}

// Options returns the upgrades currently available to the caller
// @Summary Upgrade options
// @Description List the limit upgrades available to the caller
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.UpgradeOption "Available upgrades"
// @Router /billing/options [get]
func (h *BillingHandler) Options(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	u, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	options := []dto.UpgradeOption{}
	if u.Plan != user.PlanStarter {
		if next, ok := limits.NextLimit(u.TopUpCount); ok {
			opt := dto.UpgradeOption{
				Kind:       purchase.KindTopUp,
				NewLimit:   next,
				PriceCents: purchase.TopUpPriceCents,
			}
			if u.TopUpCount == 0 {
				opt.BonusCredits = limits.FirstTopUpBonus
			}
			options = append(options, opt)
		}
		options = append(options, dto.UpgradeOption{
			Kind:       purchase.KindSubscription,
			NewLimit:   limits.SubscriptionLimit,
			PriceCents: purchase.SubscriptionPriceCents,
		})
	}

	utils.WriteSuccess(w, http.StatusOK, options)
}

// TopUp purchases one step up the limit staircase
// @Summary Purchase a top-up
// @Description Permanently raise the monthly limit one staircase step
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PurchaseRequest false "Payment reference"
// @Success 200 {object} services.TopUpResult "Top-up applied"
// @Failure 400 {object} utils.ErrorResponse "Staircase exhausted"
// @Router /billing/topup [post]
func (h *BillingHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	req, err := h.purchaseRequest(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	result, err := h.purchases.PurchaseTopUp(r.Context(), userID, req.PaymentRef)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, result)
}

// Subscribe activates the starter subscription
// @Summary Subscribe
// @Description Switch to the starter plan with its flat monthly limit
// @Tags Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PurchaseRequest false "Payment reference"
// @Success 200 {object} services.TopUpResult "Subscription active"
// @Failure 409 {object} utils.ErrorResponse "Already subscribed"
// @Router /billing/subscribe [post]
func (h *BillingHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	req, err := h.purchaseRequest(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	result, err := h.purchases.Subscribe(r.Context(), userID, req.PaymentRef)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, result)
}

// CancelSubscription cancels the starter subscription
// @Summary Cancel subscription
// @Description Return to the free plan and the earned staircase limit
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} user.Usage "Usage after cancellation"
// @Failure 400 {object} utils.ErrorResponse "No active subscription"
// @Router /billing/subscribe [delete]
func (h *BillingHandler) CancelSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	usage, err := h.purchases.CancelSubscription(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, usage)
}

// History returns the caller's purchase audit trail
// @Summary Purchase history
// @Description List the caller's limit purchases, newest first
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {array} purchase.Purchase "Purchases"
// @Router /billing/history [get]
func (h *BillingHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		utils.WriteError(w, errors.Unauthorized("Missing authentication token"))
		return
	}

	history, err := h.purchases.History(r.Context(), userID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, history)
}

func (h *BillingHandler) purchaseRequest(r *http.Request) (dto.PurchaseRequest, error) {
	var req dto.PurchaseRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, errors.BadRequest("Invalid request body")
		}
	}
	if validationErrs := h.validator.Validate(req); len(validationErrs) > 0 {
		return req, errors.ValidationError("Validation failed", validationErrs)
	}
	return req, nil
}
