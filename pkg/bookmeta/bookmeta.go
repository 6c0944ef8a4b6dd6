// Package bookmeta looks up book metadata by ISBN. OpenBD is consulted
// first since it has the best coverage for Japanese titles, with Google
// Books as the fallback. Results are cached in memory so repeated adds of
// the same book don't hammer the upstream APIs.
package bookmeta

import (
	"context"
)

// Meta is the subset of catalog metadata the providers can fill in. Fields
// are nil when the provider had no value for them.
type Meta struct {
	Title    *string
	Author   *string
	ImageURL *string
}

// Empty reports whether the lookup produced nothing usable.
func (m *Meta) Empty() bool {
	return m == nil || (m.Title == nil && m.Author == nil && m.ImageURL == nil)
}

// Provider looks up metadata for a single ISBN. Implementations return
// (nil, nil) when the ISBN is simply not in their catalog; errors are
// reserved for transport and decoding failures.
type Provider interface {
	Name() string
	LookupISBN(ctx context.Context, isbn string) (*Meta, error)
}
