package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// CategoryRepository handles data access for the category tree.
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new CategoryRepository.
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// GetAll returns all active categories ordered for tree assembly.
func (r *CategoryRepository) GetAll() ([]models.Category, error) {
	const q = `
        SELECT id, parent_id, name, slug, icon, sort_order, is_active, created_at
        FROM categories
        WHERE is_active = true
        ORDER BY sort_order ASC, name ASC`
	var list []models.Category
	if err := r.db.Select(&list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// GetByID returns a category by id.
func (r *CategoryRepository) GetByID(id int) (*models.Category, error) {
	var cat models.Category
	if err := r.db.Get(&cat, `SELECT id, parent_id, name, slug, icon, sort_order, is_active, created_at FROM categories WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetBySlug returns a category by slug.
func (r *CategoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var cat models.Category
	if err := r.db.Get(&cat, `SELECT id, parent_id, name, slug, icon, sort_order, is_active, created_at FROM categories WHERE slug = $1`, slug); err != nil {
		return nil, err
	}
	return &cat, nil
}

// GetChildren returns the direct children of a category.
func (r *CategoryRepository) GetChildren(parentID int) ([]models.Category, error) {
	const q = `
        SELECT id, parent_id, name, slug, icon, sort_order, is_active, created_at
        FROM categories
        WHERE parent_id = $1 AND is_active = true
        ORDER BY sort_order ASC, name ASC`
	var list []models.Category
	if err := r.db.Select(&list, q, parentID); err != nil {
		return nil, err
	}
	return list, nil
}

// SubtreeIDs returns the id of a category and all its descendants.
// Used by listing search so a parent category matches child listings.
func (r *CategoryRepository) SubtreeIDs(rootID int) ([]int, error) {
	const q = `
        WITH RECURSIVE subtree AS (
            SELECT id FROM categories WHERE id = $1
            UNION ALL
            SELECT c.id FROM categories c JOIN subtree s ON c.parent_id = s.id
        )
        SELECT id FROM subtree`
	var ids []int
	if err := r.db.Select(&ids, q, rootID); err != nil {
		return nil, err
	}
	return ids, nil
}
