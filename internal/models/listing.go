package models

import "time"

type ListingStatus string

const (
	ListingActive        ListingStatus = "active"
	ListingPendingReview ListingStatus = "pending_review"
	ListingSold          ListingStatus = "sold"
	ListingRemoved       ListingStatus = "removed"
)

// Listing is a classified ad posted by a seller.
type Listing struct {
	ID          int           `db:"id" json:"id"`
	OwnerID     int           `db:"owner_id" json:"ownerId"`
	CategoryID  int           `db:"category_id" json:"categoryId"`
	LocationID  int           `db:"location_id" json:"locationId"`
	Title       string        `db:"title" json:"title"`
	Description string        `db:"description" json:"description"`
	PriceXAF    int           `db:"price_xaf" json:"priceXaf"`
	Negotiable  bool          `db:"negotiable" json:"negotiable"`
	Condition   *string       `db:"condition" json:"condition,omitempty"`
	Status      ListingStatus `db:"status" json:"status"`
	ViewCount   int           `db:"view_count" json:"viewCount"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`

	// Joined fields, populated by list queries.
	CategoryName *string `db:"category_name" json:"categoryName,omitempty"`
	LocationName *string `db:"location_name" json:"locationName,omitempty"`
	OwnerName    *string `db:"owner_name" json:"ownerName,omitempty"`
	BoostTier    *string `db:"boost_tier" json:"boostTier,omitempty"`

	Images []ListingImage `db:"-" json:"images,omitempty"`
}

// ListingImage stores one image attached to a listing after moderation.
type ListingImage struct {
	ID        int       `db:"id" json:"id"`
	ListingID int       `db:"listing_id" json:"-"`
	URL       string    `db:"url" json:"url"`
	SortOrder int       `db:"sort_order" json:"sortOrder"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}
