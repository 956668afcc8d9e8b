package models

import "time"

// Category is a node in the hierarchical listing category tree.
// Root categories have a nil ParentID.
type Category struct {
	ID        int       `db:"id" json:"id"`
	ParentID  *int      `db:"parent_id" json:"parentId,omitempty"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Icon      *string   `db:"icon" json:"icon,omitempty"`
	SortOrder int       `db:"sort_order" json:"sortOrder"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"-"`

	// Children is populated when the tree is assembled, never scanned from SQL.
	Children []Category `db:"-" json:"children,omitempty"`
}
