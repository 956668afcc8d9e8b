package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/service"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// maxImageSize bounds listing image uploads (5 MiB).
const maxImageSize = 5 << 20

// ListingHandler handles listing HTTP endpoints.
type ListingHandler struct {
	listingService *service.ListingService
}

// NewListingHandler constructs a ListingHandler.
func NewListingHandler(listingService *service.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// CreateListing handles POST /v1/listings
func (h *ListingHandler) CreateListing(c *gin.Context) {
	var req service.CreateListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	listing, err := h.listingService.Create(c.GetInt("user_id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 201, "Listing created", listing)
}

// GetListing handles GET /v1/listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Listing id must be numeric")
		return
	}

	listing, err := h.listingService.Get(id, c.GetInt("user_id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Listing retrieved", listing)
}

// UpdateListing handles PUT /v1/listings/:id
func (h *ListingHandler) UpdateListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Listing id must be numeric")
		return
	}

	var req service.CreateListingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Invalid request body")
		return
	}

	listing, err := h.listingService.Update(id, c.GetInt("user_id"), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Listing updated", listing)
}

// MarkSold handles POST /v1/listings/:id/sold
func (h *ListingHandler) MarkSold(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Listing id must be numeric")
		return
	}

	if err := h.listingService.MarkSold(id, c.GetInt("user_id")); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Listing marked as sold", nil)
}

// DeleteListing handles DELETE /v1/listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Listing id must be numeric")
		return
	}

	if err := h.listingService.Remove(id, c.GetInt("user_id")); err != nil {
		h.handleError(c, err)
		return
	}
	utils.Success(c, 200, "Listing removed", nil)
}

// SearchListings handles GET /v1/listings
func (h *ListingHandler) SearchListings(c *gin.Context) {
	filter := &repository.ListingFilter{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 20),
	}
	if id := queryInt(c, "categoryId", 0); id > 0 {
		filter.CategoryIDs = []int{id}
	}
	if id := queryInt(c, "locationId", 0); id > 0 {
		filter.LocationIDs = []int{id}
	}
	if v := queryInt(c, "priceMin", -1); v >= 0 {
		filter.PriceMin = &v
	}
	if v := queryInt(c, "priceMax", -1); v >= 0 {
		filter.PriceMax = &v
	}
	if q := c.Query("q"); q != "" {
		filter.Query = &q
	}

	result, err := h.listingService.Search(filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Search failed")
		return
	}
	utils.SuccessWithPagination(c, 200, "Listings retrieved", result.Listings, result.Page, result.Limit, result.TotalItems)
}

// MyListings handles GET /v1/me/listings
func (h *ListingHandler) MyListings(c *gin.Context) {
	result, err := h.listingService.ListByOwner(c.GetInt("user_id"), queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load listings")
		return
	}
	utils.SuccessWithPagination(c, 200, "Listings retrieved", result.Listings, result.Page, result.Limit, result.TotalItems)
}

// UploadImage handles POST /v1/listings/:id/images
func (h *ListingHandler) UploadImage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Listing id must be numeric")
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		utils.Error(c, 400, "INVALID_IMAGE", "Failed to read image")
		return
	}
	if len(data) > maxImageSize {
		utils.Error(c, 400, "IMAGE_TOO_LARGE", "Image exceeds the 5MB limit")
		return
	}

	img, moderation, err := h.listingService.AddImage(
		c.Request.Context(), id, c.GetInt("user_id"), data, queryInt(c, "sortOrder", 0))
	if err != nil {
		h.handleError(c, err)
		return
	}
	if img == nil {
		utils.Error(c, 422, "IMAGE_REJECTED", "Image rejected by content moderation")
		return
	}
	utils.Success(c, 201, "Image uploaded", gin.H{"image": img, "moderation": moderation})
}

func (h *ListingHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrListingNotFound:
		utils.Error(c, 404, "LISTING_NOT_FOUND", "Listing not found")
	case utils.ErrNotListingOwner:
		utils.Error(c, 403, "NOT_LISTING_OWNER", "You do not own this listing")
	case utils.ErrListingInactive:
		utils.Error(c, 400, "LISTING_INACTIVE", "Listing is not active")
	case utils.ErrCategoryNotFound:
		utils.Error(c, 400, "CATEGORY_NOT_FOUND", "Category not found")
	case utils.ErrLocationNotFound:
		utils.Error(c, 400, "LOCATION_NOT_FOUND", "Location not found")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}

// queryInt parses an integer query parameter with a default.
func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
