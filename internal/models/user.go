package models

import "time"

// User is a marketplace account. A user can both sell (own listings) and buy.
type User struct {
	ID           int        `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Name         string     `db:"name" json:"name"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	AvatarURL    *string    `db:"avatar_url" json:"avatarUrl,omitempty"`
	Bio          *string    `db:"bio" json:"bio,omitempty"`
	LocationID   *int       `db:"location_id" json:"-"`
	Rating       *float64   `db:"rating" json:"rating,omitempty"`
	ReviewCount  int        `db:"review_count" json:"reviewCount"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastSeenAt   *time.Time `db:"last_seen_at" json:"lastSeenAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"-"`
}
