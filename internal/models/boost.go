package models

import "time"

// TierCode identifies a boost level.
type TierCode string

const (
	TierFeatured TierCode = "featured"
	TierPremium  TierCode = "premium"
	TierTop      TierCode = "top"
)

// ValidTier reports whether code is a known boost tier.
func ValidTier(code TierCode) bool {
	switch code {
	case TierFeatured, TierPremium, TierTop:
		return true
	}
	return false
}

// BoostTier is reference data describing a boost level. Name, description and
// features are static; PricePerDay may be overridden by a boost_pricing row.
type BoostTier struct {
	Code        TierCode `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	PricePerDay int      `json:"pricePerDay"`
	Features    []string `json:"features"`
}

// DefaultTiers is the fallback pricing table used when the boost_pricing lookup
// fails or has no row for a tier. Prices are XAF per day (XAF has no subunit).
var DefaultTiers = []BoostTier{
	{
		Code:        TierFeatured,
		Name:        "Featured",
		Description: "Highlighted card in category pages",
		PricePerDay: 1000,
		Features:    []string{"Highlighted card", "Featured badge"},
	},
	{
		Code:        TierPremium,
		Name:        "Premium",
		Description: "Top of category pages and search results",
		PricePerDay: 2000,
		Features:    []string{"Top of category", "Premium badge", "2x more views"},
	},
	{
		Code:        TierTop,
		Name:        "Top",
		Description: "Homepage carousel and top of every result page",
		PricePerDay: 3500,
		Features:    []string{"Homepage carousel", "Top badge", "Priority support", "5x more views"},
	},
}

// BoostPricing is a persisted per-tier daily rate overriding the default table.
type BoostPricing struct {
	ID          int       `db:"id" json:"id"`
	Tier        TierCode  `db:"tier" json:"tier"`
	PricePerDay int       `db:"price_per_day" json:"pricePerDay"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Boost is a paid, time-bounded promotion attached to a listing. A row is
// inserted only after the payment provider reports success; PaymentID carries a
// unique constraint so a replayed confirmation cannot create a second row.
type Boost struct {
	ID            int       `db:"id" json:"id"`
	ListingID     int       `db:"listing_id" json:"listingId"`
	OwnerID       int       `db:"owner_id" json:"ownerId"`
	PaymentID     int       `db:"payment_id" json:"-"`
	Tier          TierCode  `db:"tier" json:"tier"`
	StartsAt      time.Time `db:"starts_at" json:"startsAt"`
	ExpiresAt     time.Time `db:"expires_at" json:"expiresAt"`
	PriceXAF      int       `db:"price_xaf" json:"priceXaf"`
	PaymentStatus string    `db:"payment_status" json:"paymentStatus"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"-"`
}
