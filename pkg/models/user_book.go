package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserBook places one catalog book on one bookstore shelf. SortOrder is
// 1-based and dense within a bookstore: after any mutating operation the
// sort_order values of a shelf are exactly {1..N}.
type UserBook struct {
	bun.BaseModel `bun:"table:user_books,alias:ub"`

	ID          int        `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	BookstoreID int        `bun:",nullzero" json:"bookstore_id"`
	Bookstore   *Bookstore `bun:"rel:belongs-to,join:bookstore_id=id" json:"bookstore,omitempty"`
	BookID      int        `bun:",nullzero" json:"book_id"`
	Book        *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty"`
	SortOrder   int        `bun:",nullzero" json:"sort_order"`
	Comment     *string    `json:"comment"`
	IsPublic    bool       `json:"is_public"`
}
