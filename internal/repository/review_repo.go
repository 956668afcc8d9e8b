package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// ReviewRepository handles data access for seller reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review row.
func (r *ReviewRepository) Create(review *models.Review) error {
	const q = `
        INSERT INTO reviews (listing_id, seller_id, reviewer_id, rating, comment)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	return r.db.QueryRow(q,
		review.ListingID, review.SellerID, review.ReviewerID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
}

// Exists checks whether a reviewer already reviewed a listing.
func (r *ReviewRepository) Exists(listingID, reviewerID int) (bool, error) {
	var exists bool
	err := r.db.Get(&exists,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE listing_id = $1 AND reviewer_id = $2)`,
		listingID, reviewerID)
	return exists, err
}

// ListBySeller returns a seller's reviews, newest first, with pagination.
func (r *ReviewRepository) ListBySeller(sellerID, page, limit int) ([]models.Review, int, error) {
	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM reviews WHERE seller_id = $1`, sellerID); err != nil {
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
        SELECT r.*, u.name AS reviewer_name
        FROM reviews r
        JOIN users u ON r.reviewer_id = u.id
        WHERE r.seller_id = $1
        ORDER BY r.created_at DESC
        LIMIT $2 OFFSET $3`
	var list []models.Review
	if err := r.db.Select(&list, q, sellerID, limit, offset); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
