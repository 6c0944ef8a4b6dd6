package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BioMaxLength is the maximum number of characters kept for a bookstore bio.
const BioMaxLength = 140

// DefaultTheme is used when a bookstore doesn't pick one explicitly.
const DefaultTheme = "default"

// Bookstore is a tenant-owned public shelf page. The handle, when set, is
// unique across all bookstores and is the key of the public page URL.
type Bookstore struct {
	bun.BaseModel `bun:"table:bookstores,alias:bs"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	OwnerID     int       `bun:",nullzero" json:"owner_id"`
	Owner       *User     `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`
	Handle      *string   `json:"handle"`
	Title       *string   `json:"title"`
	DisplayName *string   `json:"display_name"`
	Theme       string    `bun:",nullzero" json:"theme"`
	Bio         *string   `json:"bio"`

	// Relations
	UserBooks []*UserBook `bun:"rel:has-many,join:id=bookstore_id" json:"user_books,omitempty"`
}
