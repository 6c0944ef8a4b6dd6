package models

import (
	"time"

	"github.com/uptrace/bun"
)

// NoAuthorPlaceholder marks a book whose author could not be resolved from
// any bibliographic provider. The dashboard uses it to flag entries that
// still need manual metadata.
const NoAuthorPlaceholder = "著者情報なし"

// Book is a globally shared catalog row, deduplicated across all tenants by
// ASIN. Title, author, and image follow last-writer-wins semantics: any
// tenant's later edit overwrites them.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID        int       `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ASIN      string    `bun:"asin,nullzero" json:"asin"`
	ISBN10    *string   `bun:"isbn10" json:"isbn10"`
	ISBN13    *string   `bun:"isbn13" json:"isbn13"`
	Title     string    `bun:",nullzero" json:"title"`
	Author    string    `bun:",nullzero" json:"author"`
	ImageURL  *string   `json:"image_url"`
}

// HasPlaceholderMetadata reports whether the book still carries the
// unresolved defaults (title equal to its canonical key, or the no-author
// placeholder).
func (b *Book) HasPlaceholderMetadata() bool {
	return b.Title == b.ASIN || b.Author == NoAuthorPlaceholder
}
