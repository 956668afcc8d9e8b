package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// LocationRepository handles data access for the region/city/quarter tree.
type LocationRepository struct {
	db *sqlx.DB
}

// NewLocationRepository creates a new LocationRepository.
func NewLocationRepository(db *sqlx.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// GetAll returns all active locations ordered for tree assembly.
func (r *LocationRepository) GetAll() ([]models.Location, error) {
	const q = `
        SELECT id, parent_id, name, slug, kind, is_active, created_at
        FROM locations
        WHERE is_active = true
        ORDER BY kind ASC, name ASC`
	var list []models.Location
	if err := r.db.Select(&list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// GetByID returns a location by id.
func (r *LocationRepository) GetByID(id int) (*models.Location, error) {
	var loc models.Location
	if err := r.db.Get(&loc, `SELECT id, parent_id, name, slug, kind, is_active, created_at FROM locations WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &loc, nil
}

// GetByKind returns active locations of one kind (e.g. all regions).
func (r *LocationRepository) GetByKind(kind models.LocationKind) ([]models.Location, error) {
	const q = `
        SELECT id, parent_id, name, slug, kind, is_active, created_at
        FROM locations
        WHERE kind = $1 AND is_active = true
        ORDER BY name ASC`
	var list []models.Location
	if err := r.db.Select(&list, q, kind); err != nil {
		return nil, err
	}
	return list, nil
}

// GetChildren returns the direct children of a location.
func (r *LocationRepository) GetChildren(parentID int) ([]models.Location, error) {
	const q = `
        SELECT id, parent_id, name, slug, kind, is_active, created_at
        FROM locations
        WHERE parent_id = $1 AND is_active = true
        ORDER BY name ASC`
	var list []models.Location
	if err := r.db.Select(&list, q, parentID); err != nil {
		return nil, err
	}
	return list, nil
}

// SubtreeIDs returns the id of a location and all its descendants.
func (r *LocationRepository) SubtreeIDs(rootID int) ([]int, error) {
	const q = `
        WITH RECURSIVE subtree AS (
            SELECT id FROM locations WHERE id = $1
            UNION ALL
            SELECT l.id FROM locations l JOIN subtree s ON l.parent_id = s.id
        )
        SELECT id FROM subtree`
	var ids []int
	if err := r.db.Select(&ids, q, rootID); err != nil {
		return nil, err
	}
	return ids, nil
}
