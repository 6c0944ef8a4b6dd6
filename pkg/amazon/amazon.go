// Package amazon builds outbound storefront links. Every shelf entry links
// to Amazon; whose associate tag goes on the link is an entitlement
// question, answered here.
package amazon

import (
	"net/url"

	"github.com/sassamahha/shotenme/pkg/models"
)

const storefrontBaseURL = "https://www.amazon.co.jp/dp/"

// LinkBuilder builds product links with the right associate tag.
type LinkBuilder struct {
	defaultTag string
}

func NewLinkBuilder(defaultTag string) *LinkBuilder {
	return &LinkBuilder{defaultTag: defaultTag}
}

// Link returns the product URL for an ASIN. Pro users with a tag configured
// earn their own referrals; everyone else's links carry the service tag.
func (b *LinkBuilder) Link(asin string, user *models.User) string {
	tag := b.defaultTag
	if user != nil {
		if userTag := user.AffiliateTag(); userTag != "" {
			tag = userTag
		}
	}

	link := storefrontBaseURL + url.PathEscape(asin)
	if tag != "" {
		link += "?tag=" + url.QueryEscape(tag)
	}
	return link
}
