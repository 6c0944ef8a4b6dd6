package bookmeta

import (
	"context"
	"sync"
	"time"

	"github.com/robinjoseph08/golib/logger"
	"github.com/sassamahha/shotenme/pkg/isbn"
)

// Resolver runs a lookup through a chain of providers, returning the first
// hit. Results, including misses, are cached for the configured TTL.
type Resolver struct {
	providers []Provider
	ttl       time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	meta      *Meta
	expiresAt time.Time
}

func NewResolver(ttl time.Duration, providers ...Provider) *Resolver {
	return &Resolver{
		providers: providers,
		ttl:       ttl,
		cache:     map[string]cacheEntry{},
	}
}

// LookupISBN returns metadata for the ISBN, or nil when no provider knows
// it. Provider failures are logged and treated as misses so an upstream
// outage degrades to placeholder metadata instead of failing the request.
func (r *Resolver) LookupISBN(ctx context.Context, isbn string) *Meta {
	if meta, ok := r.cached(isbn); ok {
		return meta
	}

	log := logger.FromContext(ctx)

	var meta *Meta
	for _, provider := range r.providers {
		m, err := provider.LookupISBN(ctx, isbn)
		if err != nil {
			log.Warn("book metadata lookup failed", logger.Data{"provider": provider.Name(), "isbn": isbn, "error": err.Error()})
			continue
		}
		if !m.Empty() {
			meta = m
			break
		}
	}

	r.store(isbn, meta)
	return meta
}

// LookupASIN resolves metadata for an ASIN. Amazon reuses ISBN-10s as
// ASINs for print books, so those go through the ISBN chain; Kindle-style
// ASINs have no bibliographic source and resolve to nothing.
func (r *Resolver) LookupASIN(ctx context.Context, asin string) *Meta {
	if converted := isbn.ASINToISBN(asin); converted != "" {
		return r.LookupISBN(ctx, converted)
	}
	return nil
}

func (r *Resolver) cached(isbn string) (*Meta, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.cache[isbn]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.meta, true
}

func (r *Resolver) store(isbn string, meta *Meta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[isbn] = cacheEntry{meta: meta, expiresAt: time.Now().Add(r.ttl)}
}
