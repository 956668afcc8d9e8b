package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// BoostPricingRepository handles data access for per-tier boost pricing.
type BoostPricingRepository struct {
	db *sqlx.DB
}

// NewBoostPricingRepository creates a new BoostPricingRepository.
func NewBoostPricingRepository(db *sqlx.DB) *BoostPricingRepository {
	return &BoostPricingRepository{db: db}
}

// GetByTier returns the pricing row for a tier, or sql.ErrNoRows when no
// override is configured.
func (r *BoostPricingRepository) GetByTier(tier models.TierCode) (*models.BoostPricing, error) {
	var p models.BoostPricing
	err := r.db.Get(&p, `
        SELECT id, tier, price_per_day, updated_at
        FROM boost_pricing
        WHERE tier = $1
        LIMIT 1`, tier)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll returns all configured pricing rows.
func (r *BoostPricingRepository) GetAll() ([]models.BoostPricing, error) {
	const q = `
        SELECT id, tier, price_per_day, updated_at
        FROM boost_pricing
        ORDER BY price_per_day ASC`
	var list []models.BoostPricing
	if err := r.db.Select(&list, q); err != nil {
		return nil, err
	}
	return list, nil
}

// Upsert writes an admin pricing override for a tier.
func (r *BoostPricingRepository) Upsert(p *models.BoostPricing) error {
	const q = `
        INSERT INTO boost_pricing (tier, price_per_day)
        VALUES ($1, $2)
        ON CONFLICT (tier) DO UPDATE SET
            price_per_day = EXCLUDED.price_per_day,
            updated_at = NOW()
        RETURNING id, updated_at`
	return r.db.QueryRow(q, p.Tier, p.PricePerDay).Scan(&p.ID, &p.UpdatedAt)
}
