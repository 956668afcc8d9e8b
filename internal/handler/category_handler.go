package handler

import (
	"database/sql"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MboaMarket/mboa_api/internal/models"
	"github.com/MboaMarket/mboa_api/internal/repository"
	"github.com/MboaMarket/mboa_api/internal/utils"
)

// CategoryHandler serves the category tree.
type CategoryHandler struct {
	categoryRepo *repository.CategoryRepository
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(categoryRepo *repository.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

// buildTree assembles flat rows into a parent/children tree.
func buildTree(flat []models.Category) []models.Category {
	byParent := make(map[int][]models.Category)
	var roots []models.Category
	for _, cat := range flat {
		if cat.ParentID == nil {
			roots = append(roots, cat)
		} else {
			byParent[*cat.ParentID] = append(byParent[*cat.ParentID], cat)
		}
	}
	var attach func(node *models.Category)
	attach = func(node *models.Category) {
		node.Children = byParent[node.ID]
		for i := range node.Children {
			attach(&node.Children[i])
		}
	}
	for i := range roots {
		attach(&roots[i])
	}
	return roots
}

// GetCategories handles GET /v1/categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	flat, err := h.categoryRepo.GetAll()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load categories")
		return
	}
	utils.Success(c, 200, "Categories retrieved", buildTree(flat))
}

// GetCategory handles GET /v1/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Category id must be numeric")
		return
	}

	cat, err := h.categoryRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.Error(c, 404, "CATEGORY_NOT_FOUND", "Category not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load category")
		return
	}

	children, err := h.categoryRepo.GetChildren(id)
	if err == nil {
		cat.Children = children
	}
	utils.Success(c, 200, "Category retrieved", cat)
}
