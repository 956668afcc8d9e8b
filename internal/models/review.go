package models

import "time"

// Review is a buyer's rating of a seller for one listing.
// At most one review per (listing, reviewer) pair.
type Review struct {
	ID         int       `db:"id" json:"id"`
	ListingID  int       `db:"listing_id" json:"listingId"`
	SellerID   int       `db:"seller_id" json:"sellerId"`
	ReviewerID int       `db:"reviewer_id" json:"reviewerId"`
	Rating     int       `db:"rating" json:"rating"`
	Comment    *string   `db:"comment" json:"comment,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`

	ReviewerName *string `db:"reviewer_name" json:"reviewerName,omitempty"`
}
