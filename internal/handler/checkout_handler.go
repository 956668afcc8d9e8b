package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/service"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// CheckoutHandler drives the boost purchase wizard over HTTP.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler constructs a CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

type startCheckoutRequest struct {
	ListingID int `json:"listingId" binding:"required"`
}

// Start handles POST /v1/checkout
func (h *CheckoutHandler) Start(c *gin.Context) {
	var req startCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	session, err := h.checkoutService.Start(c.Request.Context(), c.GetInt("user_id"), req.ListingID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Checkout started", session)
}

// Get handles GET /v1/checkout/:sessionId
func (h *CheckoutHandler) Get(c *gin.Context) {
	session, err := h.checkoutService.Get(c.Request.Context(), c.Param("sessionId"), c.GetInt("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Checkout session retrieved", session)
}

type selectTierRequest struct {
	Tier models.TierCode `json:"tier" binding:"required"`
}

// SelectTier handles POST /v1/checkout/:sessionId/tier
func (h *CheckoutHandler) SelectTier(c *gin.Context) {
	var req selectTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	session, err := h.checkoutService.SelectTier(c.Request.Context(), c.Param("sessionId"), c.GetInt("user_id"), req.Tier)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Tier selected", session)
}

type selectDurationRequest struct {
	Days int `json:"days" binding:"required"`
}

// SelectDuration handles POST /v1/checkout/:sessionId/duration
func (h *CheckoutHandler) SelectDuration(c *gin.Context) {
	var req selectDurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	session, err := h.checkoutService.SelectDuration(c.Request.Context(), c.Param("sessionId"), c.GetInt("user_id"), req.Days)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Duration selected", session)
}

type selectMethodRequest struct {
	Method models.PaymentMethod `json:"method" binding:"required"`
	Phone  string               `json:"phone"`
}

// SelectMethod handles POST /v1/checkout/:sessionId/method
func (h *CheckoutHandler) SelectMethod(c *gin.Context) {
	var req selectMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	session, err := h.checkoutService.SelectMethod(c.Request.Context(), c.Param("sessionId"), c.GetInt("user_id"), req.Method, req.Phone)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Payment method selected", session)
}

// Pay handles POST /v1/checkout/:sessionId/pay
func (h *CheckoutHandler) Pay(c *gin.Context) {
	session, err := h.checkoutService.Pay(c.Request.Context(), c.Param("sessionId"), c.GetInt("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Payment submitted", session)
}

// Status handles GET /v1/checkout/:sessionId/status
func (h *CheckoutHandler) Status(c *gin.Context) {
	session, payment, err := h.checkoutService.Status(c.Request.Context(), c.Param("sessionId"), c.GetInt("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Checkout status retrieved", gin.H{"session": session, "payment": payment})
}

// Back handles POST /v1/checkout/:sessionId/back
func (h *CheckoutHandler) Back(c *gin.Context) {
	session, err := h.checkoutService.Back(c.Request.Context(), c.Param("sessionId"), c.GetInt("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Step reverted", session)
}

// Cancel handles DELETE /v1/checkout/:sessionId
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	if err := h.checkoutService.Cancel(c.Request.Context(), c.Param("sessionId"), c.GetInt("user_id")); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Checkout cancelled", nil)
}

func (h *CheckoutHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrSessionNotFound:
		utils.Error(c, 404, "SESSION_NOT_FOUND", "Checkout session not found or expired")
	case utils.ErrInvalidTransition:
		utils.Error(c, 409, "INVALID_TRANSITION", "Step not allowed from the current state")
	case utils.ErrListingNotFound:
		utils.Error(c, 404, "LISTING_NOT_FOUND", "Listing not found")
	case utils.ErrNotListingOwner:
		utils.Error(c, 403, "NOT_LISTING_OWNER", "You do not own this listing")
	case utils.ErrListingInactive:
		utils.Error(c, 400, "LISTING_INACTIVE", "Only active listings can be boosted")
	case utils.ErrInvalidTier:
		utils.Error(c, 400, "INVALID_TIER", "Unknown boost tier")
	case utils.ErrInvalidDuration:
		utils.Error(c, 400, "INVALID_DURATION", "Duration out of range")
	case utils.ErrMissingMethod:
		utils.Error(c, 400, "MISSING_METHOD", "Unknown payment method")
	case utils.ErrMissingPhone:
		utils.Error(c, 400, "MISSING_PHONE", "Payer phone number is required")
	case utils.ErrInvalidPhone:
		utils.Error(c, 400, "INVALID_PHONE", "Payer phone number is not valid for this operator")
	case utils.ErrAccountNotFound:
		utils.Error(c, 422, "MOMO_ACCOUNT_NOT_FOUND", "No mobile money account for this number")
	case utils.ErrPaymentDeclined:
		utils.Error(c, 402, "PAYMENT_DECLINED", "Payment was declined")
	case utils.ErrPaymentTimeout:
		utils.Error(c, 408, "PAYMENT_TIMEOUT", "Payment confirmation timed out")
	case utils.ErrProviderUnavailable:
		utils.Error(c, 502, "PROVIDER_UNAVAILABLE", "Payment provider unavailable, try again later")
	case utils.ErrPayPalNotImplemented:
		utils.Error(c, 501, "PAYPAL_NOT_IMPLEMENTED", "PayPal payments are not available yet")
	case utils.ErrPaymentNotFound:
		utils.Error(c, 404, "PAYMENT_NOT_FOUND", "Payment not found")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
