package handler

import (
	"database/sql"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// LocationHandler serves the region/city/quarter tree.
type LocationHandler struct {
	locationRepo *repository.LocationRepository
}

// NewLocationHandler constructs a LocationHandler.
func NewLocationHandler(locationRepo *repository.LocationRepository) *LocationHandler {
	return &LocationHandler{locationRepo: locationRepo}
}

// GetLocations handles GET /v1/locations. An optional kind query filters to
// one level of the tree (region, city or quarter).
func (h *LocationHandler) GetLocations(c *gin.Context) {
	if kind := c.Query("kind"); kind != "" {
		list, err := h.locationRepo.GetByKind(models.LocationKind(kind))
		if err != nil {
			utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load locations")
			return
		}
		utils.Success(c, 200, "Locations retrieved", list)
		return
	}

	list, err := h.locationRepo.GetAll()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load locations")
		return
	}
	utils.Success(c, 200, "Locations retrieved", list)
}

// GetLocationChildren handles GET /v1/locations/:id/children
func (h *LocationHandler) GetLocationChildren(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Location id must be numeric")
		return
	}

	if _, err := h.locationRepo.GetByID(id); err != nil {
		if err == sql.ErrNoRows {
			utils.Error(c, 404, "LOCATION_NOT_FOUND", "Location not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load location")
		return
	}

	children, err := h.locationRepo.GetChildren(id)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load locations")
		return
	}
	utils.Success(c, 200, "Locations retrieved", children)
}
