package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/service"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// BoostHandler handles boost catalog and history endpoints.
type BoostHandler struct {
	pricingService *service.PricingService
	boostService   *service.BoostService
	paymentService *service.PaymentService
}

// NewBoostHandler constructs a BoostHandler.
func NewBoostHandler(pricingService *service.PricingService, boostService *service.BoostService, paymentService *service.PaymentService) *BoostHandler {
	return &BoostHandler{
		pricingService: pricingService,
		boostService:   boostService,
		paymentService: paymentService,
	}
}

// GetTiers handles GET /v1/boost/tiers
func (h *BoostHandler) GetTiers(c *gin.Context) {
	utils.Success(c, 200, "Boost tiers retrieved", h.pricingService.GetTiers(c.Request.Context()))
}

// GetQuote handles GET /v1/boost/quote?tier=premium&days=14
func (h *BoostHandler) GetQuote(c *gin.Context) {
	tier := models.TierCode(c.Query("tier"))
	days := queryInt(c, "days", 0)

	total, err := h.pricingService.Quote(c.Request.Context(), tier, days)
	if err != nil {
		switch err {
		case utils.ErrInvalidTier:
			utils.Error(c, 400, "INVALID_TIER", "Unknown boost tier")
		case utils.ErrInvalidDuration:
			utils.Error(c, 400, "INVALID_DURATION", "Duration out of range")
		default:
			utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	utils.Success(c, 200, "Quote computed", gin.H{
		"tier":     tier,
		"days":     days,
		"totalXaf": total,
	})
}

// MyBoosts handles GET /v1/me/boosts
func (h *BoostHandler) MyBoosts(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	boosts, total, err := h.boostService.ListByOwner(c.GetInt("user_id"), page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load boosts")
		return
	}
	utils.SuccessWithPagination(c, 200, "Boosts retrieved", boosts, page, limit, total)
}

// GetPayment handles GET /v1/payments/:paymentId
func (h *BoostHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentService.GetPayment(c.Param("paymentId"), c.GetInt("user_id"))
	if err != nil {
		if err == utils.ErrPaymentNotFound {
			utils.Error(c, 404, "PAYMENT_NOT_FOUND", "Payment not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}
	utils.Success(c, 200, "Payment retrieved", payment)
}
