package scraper

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pfrederiksen/cineco-calendar/internal/logger"
)

const listingKey = "listing"

// Cache keeps the last listing page for a while so that calendar clients
// polling several feeds do not log into Cinegestion on every request.
type Cache struct {
	next  Fetcher
	store *cache.Cache
}

// NewCache wraps next. A ttl of zero or less disables caching.
func NewCache(next Fetcher, ttl time.Duration) *Cache {
	c := &Cache{next: next}
	if ttl > 0 {
		c.store = cache.New(ttl, 2*ttl)
	}
	return c
}

// Fetch returns the cached listing when still fresh, otherwise fetches it.
// Failed fetches are never cached.
func (c *Cache) Fetch(ctx context.Context) (string, error) {
	if c.store == nil {
		return c.next.Fetch(ctx)
	}

	if v, found := c.store.Get(listingKey); found {
		logger.IncrCounter("fetch.cache_hits")
		return v.(string), nil
	}

	html, err := c.next.Fetch(ctx)
	if err != nil {
		return "", err
	}
	c.store.SetDefault(listingKey, html)
	return html, nil
}
