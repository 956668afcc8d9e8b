package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/service"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// AdminHandler handles the back-office API surface.
type AdminHandler struct {
	adminAuthService *service.AdminAuthService
	listingService   *service.ListingService
	pricingService   *service.PricingService
	paymentRepo      *repository.PaymentRepository
	boostRepo        *repository.BoostRepository
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(
	adminAuthService *service.AdminAuthService,
	listingService *service.ListingService,
	pricingService *service.PricingService,
	paymentRepo *repository.PaymentRepository,
	boostRepo *repository.BoostRepository,
) *AdminHandler {
	return &AdminHandler{
		adminAuthService: adminAuthService,
		listingService:   listingService,
		pricingService:   pricingService,
		paymentRepo:      paymentRepo,
		boostRepo:        boostRepo,
	}
}

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /v1/admin/auth/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Email and password are required")
		return
	}

	token, err := h.adminAuthService.Login(req.Email, req.Password)
	if err != nil {
		if err == utils.ErrInvalidCredentials {
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}
	utils.Success(c, 200, "Login successful", gin.H{"token": token})
}

// dateRange pulls the optional startDate/endDate query params (YYYY-MM-DD).
func dateRange(c *gin.Context) (startDate, endDate *string) {
	if v := c.Query("startDate"); v != "" {
		startDate = &v
	}
	if v := c.Query("endDate"); v != "" {
		endDate = &v
	}
	return startDate, endDate
}

// GetStats handles GET /v1/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	startDate, endDate := dateRange(c)

	stats, err := h.paymentRepo.GetAdminStats(startDate, endDate)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to compute stats")
		return
	}
	activeBoosts, err := h.boostRepo.ActiveCountByTier()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to compute stats")
		return
	}
	utils.Success(c, 200, "Stats retrieved", gin.H{
		"payments":     stats,
		"activeBoosts": activeBoosts,
	})
}

// GetDailyRevenue handles GET /v1/admin/stats/revenue
func (h *AdminHandler) GetDailyRevenue(c *gin.Context) {
	startDate, endDate := dateRange(c)

	revenue, err := h.paymentRepo.GetDailyRevenue(startDate, endDate)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to compute revenue")
		return
	}
	utils.Success(c, 200, "Daily revenue retrieved", revenue)
}

// GetPayment handles GET /v1/admin/payments/:paymentId
func (h *AdminHandler) GetPayment(c *gin.Context) {
	payment, err := h.paymentRepo.GetByPaymentID(c.Param("paymentId"))
	if err != nil {
		utils.Error(c, 404, "PAYMENT_NOT_FOUND", "Payment not found")
		return
	}
	utils.Success(c, 200, "Payment retrieved", payment)
}

// GetModerationQueue handles GET /v1/admin/moderation
func (h *AdminHandler) GetModerationQueue(c *gin.Context) {
	listings, err := h.listingService.ModerationQueue(queryInt(c, "limit", 50))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load moderation queue")
		return
	}
	utils.Success(c, 200, "Moderation queue retrieved", listings)
}

type moderateRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// Moderate handles POST /v1/admin/moderation/:id
func (h *AdminHandler) Moderate(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Listing id must be numeric")
		return
	}

	var req moderateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "approve is required")
		return
	}

	if err := h.listingService.Moderate(id, *req.Approve); err != nil {
		if err == utils.ErrListingNotFound {
			utils.Error(c, 404, "LISTING_NOT_FOUND", "Listing not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}
	utils.Success(c, 200, "Listing moderated", nil)
}

type setRateRequest struct {
	Tier        models.TierCode `json:"tier" binding:"required"`
	PricePerDay int             `json:"pricePerDay" binding:"required,min=1"`
}

// SetBoostRate handles PUT /v1/admin/boost-pricing
func (h *AdminHandler) SetBoostRate(c *gin.Context) {
	var req setRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "tier and pricePerDay are required")
		return
	}

	pricing, err := h.pricingService.SetRate(c.Request.Context(), req.Tier, req.PricePerDay)
	if err != nil {
		if err == utils.ErrInvalidTier {
			utils.Error(c, 400, "INVALID_TIER", "Unknown boost tier")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}
	utils.Success(c, 200, "Boost rate updated", pricing)
}
