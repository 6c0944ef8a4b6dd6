package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                 int       `bun:",pk,nullzero" json:"id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	Username           string    `bun:",nullzero" json:"username"`
	Email              *string   `json:"email,omitempty"`
	PasswordHash       string    `json:"-"` // Never expose password hash
	Handle             *string   `json:"handle"`
	DisplayName        *string   `json:"display_name"`
	AmazonAssociateTag *string   `json:"amazon_associate_tag"`
	IsPro              bool      `json:"is_pro"`

	// Relations
	Bookstores []*Bookstore `bun:"rel:has-many,join:id=owner_id" json:"bookstores,omitempty"`
}

// AffiliateTag returns the user's Amazon associate tag only while the pro
// entitlement is active. A tag stored on a non-pro account is treated as
// unset.
func (u *User) AffiliateTag() string {
	if u.IsPro && u.AmazonAssociateTag != nil {
		return *u.AmazonAssociateTag
	}
	return ""
}
