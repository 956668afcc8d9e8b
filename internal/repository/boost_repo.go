package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// BoostRepository handles data access for listing boosts.
type BoostRepository struct {
	db *sqlx.DB
}

// NewBoostRepository creates a new BoostRepository.
func NewBoostRepository(db *sqlx.DB) *BoostRepository {
	return &BoostRepository{db: db}
}

// Create inserts a boost row. The payment_id column carries a unique
// constraint, so inserting twice for the same payment fails with a unique
// violation. Callers use IsUniqueViolation to treat that as an idempotent
// replay rather than an error.
func (r *BoostRepository) Create(b *models.Boost) error {
	const q = `
        INSERT INTO boosts (listing_id, owner_id, payment_id, tier, starts_at, expires_at, price_xaf, payment_status, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(q,
		b.ListingID, b.OwnerID, b.PaymentID, b.Tier, b.StartsAt, b.ExpiresAt,
		b.PriceXAF, b.PaymentStatus, b.IsActive,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

// GetByPaymentID returns the boost created for a payment row, if any.
func (r *BoostRepository) GetByPaymentID(paymentID int) (*models.Boost, error) {
	var b models.Boost
	if err := r.db.Get(&b, `SELECT * FROM boosts WHERE payment_id = $1 LIMIT 1`, paymentID); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetActiveByListing returns the listing's currently active boost, if any.
func (r *BoostRepository) GetActiveByListing(listingID int) (*models.Boost, error) {
	const q = `
        SELECT * FROM boosts
        WHERE listing_id = $1 AND is_active = true AND expires_at > NOW()
        ORDER BY expires_at DESC
        LIMIT 1`
	var b models.Boost
	if err := r.db.Get(&b, q, listingID); err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByOwner returns an owner's boosts, newest first.
func (r *BoostRepository) ListByOwner(ownerID, page, limit int) ([]models.Boost, int, error) {
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM boosts WHERE owner_id = $1`, ownerID); err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	const q = `
        SELECT * FROM boosts
        WHERE owner_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3`
	var list []models.Boost
	if err := r.db.Select(&list, q, ownerID, limit, offset); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// DeactivateExpired flips is_active off for boosts past their expiry and
// returns the affected listing ids.
func (r *BoostRepository) DeactivateExpired() ([]int, error) {
	const q = `
        UPDATE boosts SET is_active = false, updated_at = NOW()
        WHERE is_active = true AND expires_at <= NOW()
        RETURNING listing_id`
	var ids []int
	if err := r.db.Select(&ids, q); err != nil {
		return nil, err
	}
	return ids, nil
}

// ActiveCountByTier returns how many boosts are live per tier.
func (r *BoostRepository) ActiveCountByTier() (map[models.TierCode]int, error) {
	const q = `
        SELECT tier, COUNT(*) AS cnt
        FROM boosts
        WHERE is_active = true AND expires_at > NOW()
        GROUP BY tier`
	rows, err := r.db.Queryx(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.TierCode]int)
	for rows.Next() {
		var tier models.TierCode
		var cnt int
		if err := rows.Scan(&tier, &cnt); err != nil {
			return nil, err
		}
		counts[tier] = cnt
	}
	return counts, rows.Err()
}
