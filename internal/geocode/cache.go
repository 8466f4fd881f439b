package geocode

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/pkordes/bootcamp-api/internal/domain"
)

// Cache memoizes non-empty lookups in an in-process ristretto cache.
// Concurrent misses for the same query share one upstream call.
type Cache struct {
	next  Geocoder
	c     *ristretto.Cache[string, []domain.GeoResult]
	ttl   time.Duration
	group singleflight.Group
}

// NewCache wraps next with a cache holding up to maxEntries answers for ttl.
func NewCache(next Geocoder, maxEntries int64, ttl time.Duration) (*Cache, error) {
	if maxEntries < 1 {
		maxEntries = 1
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, []domain.GeoResult]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("geocode.NewCache: %w", err)
	}
	return &Cache{next: next, c: c, ttl: ttl}, nil
}

// Geocode answers from the cache when possible.
// A shared upstream call is detached from the cancellation of the caller that
// started it; each caller stops waiting when its own ctx is done.
func (c *Cache) Geocode(ctx context.Context, query string) ([]domain.GeoResult, error) {
	key := cacheKey(query)

	if v, ok := c.c.Get(key); ok {
		return slices.Clone(v), nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		res, err := c.next.Geocode(shared, query)
		if err != nil {
			return nil, err
		}
		if len(res) > 0 {
			c.c.SetWithTTL(key, res, 1, c.ttl)
			c.c.Wait()
		}
		return res, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return slices.Clone(r.Val.([]domain.GeoResult)), nil
	}
}

// Close stops the cache's background goroutines.
func (c *Cache) Close() {
	c.c.Close()
}

func cacheKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
