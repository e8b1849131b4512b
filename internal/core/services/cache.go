// internal/core/services/cache.go
package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ammerola/stockscan/internal/core/domain"
)

// snapshot is a decoded collection and the store version it was read at
type snapshot struct {
	items   []domain.InventoryItem
	version string
}

// snapshotCache holds the last collection read from a remote store.
// Concurrent misses share one fetch.
type snapshotCache struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.RWMutex
	snap      *snapshot
	fetchedAt time.Time
	gen       uint64

	group singleflight.Group
}

func newSnapshotCache(ttl time.Duration, now func() time.Time) *snapshotCache {
	return &snapshotCache{ttl: ttl, now: now}
}

// fresh returns the cached snapshot while it is within ttl
func (c *snapshotCache) fresh() (snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.now().Sub(c.fetchedAt) >= c.ttl {
		return snapshot{}, false
	}
	return *c.snap, true
}

// stale returns the last snapshot regardless of age
func (c *snapshotCache) stale() (snapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return snapshot{}, false
	}
	return *c.snap, true
}

// put records a snapshot this process just wrote
func (c *snapshotCache) put(s snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.snap = &s
	c.fetchedAt = c.now()
}

// fetch loads through fn, sharing the call between concurrent readers. A fetch
// that started before a write does not overwrite what the write cached.
func (c *snapshotCache) fetch(ctx context.Context, fn func(context.Context) (snapshot, error)) (snapshot, error) {
	v, err, _ := c.group.Do("snapshot", func() (interface{}, error) {
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		s, err := fn(ctx)
		if err != nil {
			return snapshot{}, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.gen++
			c.snap = &s
			c.fetchedAt = c.now()
		}
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return snapshot{}, err
	}
	return v.(snapshot), nil
}
