package marketdata

import (
	"context"
	"sync"
	"time"

	"biotrial-analyzer/internal/models"
)

// CachedProvider wraps a Provider with a per-symbol TTL cache. Catalyst scans
// hit the same handful of tickers repeatedly; prices do not need to be
// fresher than the configured TTL.
type CachedProvider struct {
	inner Provider
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	quote   models.Quote
	fetched time.Time
}

// NewCachedProvider creates a caching wrapper around a provider.
func NewCachedProvider(inner Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// GetQuote returns a cached quote when fresh, otherwise fetches and caches.
// Fetch errors are never cached.
func (c *CachedProvider) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	c.mu.Lock()
	if entry, ok := c.entries[symbol]; ok && c.now().Sub(entry.fetched) < c.ttl {
		quote := entry.quote
		c.mu.Unlock()
		return &quote, nil
	}
	c.mu.Unlock()

	quote, err := c.inner.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[symbol] = cacheEntry{quote: *quote, fetched: c.now()}
	c.mu.Unlock()

	return quote, nil
}
