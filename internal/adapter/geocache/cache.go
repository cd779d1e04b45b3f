// Package geocache memoizes geocoding lookups for any provider in the chain.
package geocache

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedProvider wraps any GeocodingProvider with an in-memory LRU cache.
type CachedProvider struct {
	inner   domain.GeocodingProvider
	cache   *lru.Cache[string, []domain.GeocodeCandidate]
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a geocoding provider.
// maxEntries below 1 is treated as 1.
func NewCachedProvider(inner domain.GeocodingProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	cache, err := lru.New[string, []domain.GeocodeCandidate](max(maxEntries, 1))
	if err != nil {
		// Only a non-positive size fails, and that is clamped above.
		panic(fmt.Sprintf("geocache: %v", err))
	}
	return &CachedProvider{inner: inner, cache: cache, metrics: metrics}
}

// Name reports the wrapped provider's name.
func (c *CachedProvider) Name() string { return c.inner.Name() }

func (c *CachedProvider) Search(ctx context.Context, query domain.GeocodeQuery, count int) ([]domain.GeocodeCandidate, error) {
	key := cacheKey(c.inner.Name(), query, count)
	if result, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return clone(result), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.Search(ctx, query, count)
	if err != nil {
		return nil, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if len(result) > 0 {
		c.cache.Add(key, clone(result))
	}
	return result, nil
}

// Len reports the number of cached lookups.
func (c *CachedProvider) Len() int { return c.cache.Len() }

func cacheKey(provider string, query domain.GeocodeQuery, count int) string {
	return fmt.Sprintf("%s|%s|%s|%d",
		provider,
		strings.ToLower(strings.TrimSpace(query.Name)),
		strings.ToLower(strings.TrimSpace(query.Region)),
		count,
	)
}

func clone(c []domain.GeocodeCandidate) []domain.GeocodeCandidate {
	return append([]domain.GeocodeCandidate(nil), c...)
}
