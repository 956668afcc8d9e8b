package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/service"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// ReviewHandler handles seller review endpoints.
type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler constructs a ReviewHandler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReview handles POST /v1/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req service.CreateReviewInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	review, err := h.reviewService.Create(c.GetInt("user_id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Review recorded", review)
}

// GetSellerReviews handles GET /v1/users/:id/reviews
func (h *ReviewHandler) GetSellerReviews(c *gin.Context) {
	sellerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "User id must be numeric")
		return
	}

	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	reviews, total, err := h.reviewService.ListBySeller(sellerID, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load reviews")
		return
	}
	utils.SuccessWithPagination(c, 200, "Reviews retrieved", reviews, page, limit, total)
}

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrListingNotFound:
		utils.Error(c, 404, "LISTING_NOT_FOUND", "Listing not found")
	case utils.ErrSelfReview:
		utils.Error(c, 400, "SELF_REVIEW", "You cannot review your own listing")
	case utils.ErrAlreadyReviewed:
		utils.Error(c, 409, "ALREADY_REVIEWED", "You already reviewed this listing")
	case utils.ErrInvalidRating:
		utils.Error(c, 400, "INVALID_RATING", "Rating must be between 1 and 5")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
