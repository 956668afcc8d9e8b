package models

import "time"

// LocationKind distinguishes levels of the location tree.
type LocationKind string

const (
	LocationRegion LocationKind = "region"
	LocationCity   LocationKind = "city"
	LocationQuarter LocationKind = "quarter"
)

// Location is a node in the region > city > quarter hierarchy.
type Location struct {
	ID        int          `db:"id" json:"id"`
	ParentID  *int         `db:"parent_id" json:"parentId,omitempty"`
	Name      string       `db:"name" json:"name"`
	Slug      string       `db:"slug" json:"slug"`
	Kind      LocationKind `db:"kind" json:"kind"`
	IsActive  bool         `db:"is_active" json:"isActive"`
	CreatedAt time.Time    `db:"created_at" json:"-"`

	Children []Location `db:"-" json:"children,omitempty"`
}
