package service

import (
	"sync"
	"time"

	"github.com/RafaelHerrera7/buda/internal/domain"
)

// SnapshotCache holds one bulk ticker snapshot with an expiry timestamp.
// Purely in-memory, per-process; multi-instance coherency is out of scope.
// The clock is injected so expiry can be tested deterministically.
type SnapshotCache struct {
	mu        sync.RWMutex
	snapshot  *domain.TickerSnapshot
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewSnapshotCache creates an empty cache with the given TTL. A nil clock
// defaults to time.Now.
func NewSnapshotCache(ttl time.Duration, now func() time.Time) *SnapshotCache {
	if now == nil {
		now = time.Now
	}
	return &SnapshotCache{ttl: ttl, now: now}
}

// Get returns the stored snapshot only while it is fresh. An expired
// snapshot is treated as absent but not cleared from storage.
func (c *SnapshotCache) Get() (*domain.TickerSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.snapshot == nil {
		return nil, false
	}
	if c.now().Sub(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return c.snapshot, true
}

// Set replaces the snapshot and stamps the fetch time.
func (c *SnapshotCache) Set(snapshot *domain.TickerSnapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = snapshot
	c.fetchedAt = c.now()
}

// Clear resets the cache to absent.
func (c *SnapshotCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.snapshot = nil
	c.fetchedAt = time.Time{}
}
