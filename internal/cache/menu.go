// Package cache keeps venue menus in Redis. A nil *MenuCache is a valid no-op cache.
//
// Menus are stored under a per-venue version. Invalidate bumps the version, so a
// listing read from the database before a mutation can only ever be written to a
// key nobody reads again.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/metrics"
)

const driver = "redis"

type MenuCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMenuCache(rdb *redis.Client, ttl time.Duration) *MenuCache {
	return &MenuCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func versionKey(venueID uint) string {
	return fmt.Sprintf("venue:%d:menu:version", venueID)
}

func menuKey(venueID uint, version int64) string {
	return fmt.Sprintf("venue:%d:menu:v%d", venueID, version)
}

// Get returns the cached menu. On a miss it still returns the version the caller
// must hand to Set after loading from the database.
func (c *MenuCache) Get(ctx context.Context, venueID uint) ([]domain.MenuItem, int64, bool) {
	if c == nil || c.rdb == nil {
		return nil, 0, false
	}

	version, err := c.rdb.Get(ctx, versionKey(venueID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		metrics.CacheErrors.WithLabelValues(driver).Inc()
		metrics.CacheMisses.WithLabelValues(driver).Inc()
		return nil, -1, false
	}

	val, err := c.rdb.Get(ctx, menuKey(venueID, version)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.CacheErrors.WithLabelValues(driver).Inc()
		}
		metrics.CacheMisses.WithLabelValues(driver).Inc()
		return nil, version, false
	}

	var items []domain.MenuItem
	if err := json.Unmarshal(val, &items); err != nil {
		metrics.CacheMisses.WithLabelValues(driver).Inc()
		return nil, version, false
	}

	metrics.CacheHits.WithLabelValues(driver).Inc()

	return items, version, true
}

// Set stores items under version. A negative version means Get could not read
// the current one and nothing is written.
func (c *MenuCache) Set(ctx context.Context, venueID uint, version int64, items []domain.MenuItem) error {
	if c == nil || c.rdb == nil || version < 0 {
		return nil
	}

	data, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, menuKey(venueID, version), data, c.ttl).Err()
}

// Invalidate moves the venue to a new version. The old entry is left to expire.
func (c *MenuCache) Invalidate(ctx context.Context, venueID uint) error {
	if c == nil || c.rdb == nil {
		return nil
	}

	return c.rdb.Incr(ctx, versionKey(venueID)).Err()
}
