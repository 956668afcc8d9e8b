package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/MboaMarket/mboa_api/internal/models"
)

// ListingRepository handles data access for listings.
type ListingRepository struct {
	db *sqlx.DB
}

// NewListingRepository creates a new ListingRepository.
func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

// Create inserts a new listing row.
func (r *ListingRepository) Create(l *models.Listing) error {
	const q = `
        INSERT INTO listings (
            owner_id, category_id, location_id, title, description,
            price_xaf, negotiable, condition, status
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRow(q,
		l.OwnerID, l.CategoryID, l.LocationID, l.Title, l.Description,
		l.PriceXAF, l.Negotiable, l.Condition, l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

// GetByID returns a listing with joined category/location/owner names and the
// currently active boost tier, if any.
func (r *ListingRepository) GetByID(id int) (*models.Listing, error) {
	const q = `
        SELECT l.*,
               c.name AS category_name,
               loc.name AS location_name,
               u.name AS owner_name,
               b.tier AS boost_tier
        FROM listings l
        JOIN categories c ON l.category_id = c.id
        JOIN locations loc ON l.location_id = loc.id
        JOIN users u ON l.owner_id = u.id
        LEFT JOIN boosts b ON b.listing_id = l.id AND b.is_active = true AND b.expires_at > NOW()
        WHERE l.id = $1
        LIMIT 1`
	var l models.Listing
	if err := r.db.Get(&l, q, id); err != nil {
		return nil, err
	}
	return &l, nil
}

// Update updates mutable listing fields.
func (r *ListingRepository) Update(l *models.Listing) error {
	const q = `
        UPDATE listings SET
            category_id = $2,
            location_id = $3,
            title = $4,
            description = $5,
            price_xaf = $6,
            negotiable = $7,
            condition = $8,
            status = $9,
            updated_at = NOW()
        WHERE id = $1`
	_, err := r.db.Exec(q,
		l.ID, l.CategoryID, l.LocationID, l.Title, l.Description,
		l.PriceXAF, l.Negotiable, l.Condition, l.Status,
	)
	return err
}

// UpdateStatus changes only the listing status.
func (r *ListingRepository) UpdateStatus(id int, status models.ListingStatus) error {
	_, err := r.db.Exec(`UPDATE listings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

// IncrementViews bumps the view counter.
func (r *ListingRepository) IncrementViews(id int) error {
	_, err := r.db.Exec(`UPDATE listings SET view_count = view_count + 1 WHERE id = $1`, id)
	return err
}

// ListingFilter holds filters for listing searches.
type ListingFilter struct {
	CategoryIDs []int
	LocationIDs []int
	OwnerID     *int
	Status      *models.ListingStatus
	PriceMin    *int
	PriceMax    *int
	Query       *string
	Page        int
	Limit       int
}

// ListingResult contains paginated search results.
type ListingResult struct {
	Listings   []models.Listing
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// Search returns listings matching the filter. Actively boosted listings rank
// first (top > premium > featured), then recency.
func (r *ListingRepository) Search(filter *ListingFilter) (*ListingResult, error) {
	baseQ := `FROM listings l
              JOIN categories c ON l.category_id = c.id
              JOIN locations loc ON l.location_id = loc.id
              JOIN users u ON l.owner_id = u.id
              LEFT JOIN boosts b ON b.listing_id = l.id AND b.is_active = true AND b.expires_at > NOW()
              WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil {
		baseQ += fmt.Sprintf(" AND l.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if len(filter.CategoryIDs) > 0 {
		baseQ += fmt.Sprintf(" AND l.category_id = ANY($%d)", argIdx)
		args = append(args, pq.Array(filter.CategoryIDs))
		argIdx++
	}
	if len(filter.LocationIDs) > 0 {
		baseQ += fmt.Sprintf(" AND l.location_id = ANY($%d)", argIdx)
		args = append(args, pq.Array(filter.LocationIDs))
		argIdx++
	}
	if filter.OwnerID != nil {
		baseQ += fmt.Sprintf(" AND l.owner_id = $%d", argIdx)
		args = append(args, *filter.OwnerID)
		argIdx++
	}
	if filter.PriceMin != nil {
		baseQ += fmt.Sprintf(" AND l.price_xaf >= $%d", argIdx)
		args = append(args, *filter.PriceMin)
		argIdx++
	}
	if filter.PriceMax != nil {
		baseQ += fmt.Sprintf(" AND l.price_xaf <= $%d", argIdx)
		args = append(args, *filter.PriceMax)
		argIdx++
	}
	if filter.Query != nil && *filter.Query != "" {
		baseQ += fmt.Sprintf(" AND (l.title ILIKE $%d OR l.description ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Query+"%")
		argIdx++
	}

	// Count total
	var total int
	if err := r.db.Get(&total, "SELECT COUNT(*) "+baseQ, args...); err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit
	totalPages := (total + filter.Limit - 1) / filter.Limit

	selectQ := fmt.Sprintf(`
        SELECT l.*,
               c.name AS category_name,
               loc.name AS location_name,
               u.name AS owner_name,
               b.tier AS boost_tier
        %s
        ORDER BY
            CASE b.tier WHEN 'top' THEN 0 WHEN 'premium' THEN 1 WHEN 'featured' THEN 2 ELSE 3 END,
            l.created_at DESC
        LIMIT $%d OFFSET $%d`, baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var listings []models.Listing
	if err := r.db.Select(&listings, selectQ, args...); err != nil {
		return nil, err
	}

	return &ListingResult{
		Listings:   listings,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// AddImage attaches a moderated image to a listing.
func (r *ListingRepository) AddImage(img *models.ListingImage) error {
	const q = `
        INSERT INTO listing_images (listing_id, url, sort_order)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`
	return r.db.QueryRow(q, img.ListingID, img.URL, img.SortOrder).Scan(&img.ID, &img.CreatedAt)
}

// GetImages returns a listing's images in display order.
func (r *ListingRepository) GetImages(listingID int) ([]models.ListingImage, error) {
	const q = `SELECT * FROM listing_images WHERE listing_id = $1 ORDER BY sort_order ASC, id ASC`
	var list []models.ListingImage
	if err := r.db.Select(&list, q, listingID); err != nil {
		return nil, err
	}
	return list, nil
}

// GetModerationQueue returns listings awaiting review, oldest first.
func (r *ListingRepository) GetModerationQueue(limit int) ([]models.Listing, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	const q = `
        SELECT l.*, c.name AS category_name, loc.name AS location_name, u.name AS owner_name
        FROM listings l
        JOIN categories c ON l.category_id = c.id
        JOIN locations loc ON l.location_id = loc.id
        JOIN users u ON l.owner_id = u.id
        WHERE l.status = 'pending_review'
        ORDER BY l.updated_at ASC
        LIMIT $1`
	var list []models.Listing
	if err := r.db.Select(&list, q, limit); err != nil {
		return nil, err
	}
	return list, nil
}
