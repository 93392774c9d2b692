// Package cache provides a bounded, TTL-aware associative store keyed by
// (domain name, query type), backed by hashicorp/golang-lru for the
// recency-list/index-map bookkeeping.
package cache

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/halvorsen/dnswalk/internal/dns/common/clock"
)

// DefaultCapacity is the default number of keys the cache will hold, per
// the resolver's default resource discipline.
const DefaultCapacity = 512

// entry is the value stored per key: the answer strings and the absolute
// instant at which they expire.
type entry struct {
	value     []string
	expiresAt time.Time
}

// Cache is a fixed-capacity, most-recently-used store with a per-entry
// expiry. A Get on an expired entry removes it and counts as a miss; a Get
// on a live entry promotes it to the most-recently-used position.
//
// Safe for concurrent use: every operation runs through the underlying
// hashicorp/golang-lru Cache, which serializes access with an internal
// mutex, and the hit/miss/eviction counters are updated atomically.
type Cache struct {
	lru       *lru.Cache[string, entry]
	clock     clock.Clock
	hits      uint64
	misses    uint64
	evictions uint64
}

// New creates a Cache with the given capacity using the real wall clock.
func New(capacity int) (*Cache, error) {
	return NewWithClock(capacity, clock.RealClock{})
}

// NewWithClock creates a Cache using the supplied Clock, so tests can
// simulate TTL expiry deterministically via clock.MockClock.Advance.
func NewWithClock(capacity int, clk clock.Clock) (*Cache, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{clock: clk}
	backing, err := lru.NewWithEvict(capacity, func(_ string, _ entry) {
		atomic.AddUint64(&c.evictions, 1)
	})
	if err != nil {
		return nil, err
	}
	c.lru = backing
	return c, nil
}

// Get looks up key. If absent, or present but expired, it records a miss
// and returns ok=false (removing the expired entry as a side effect). If
// present and live, it records a hit, promotes the entry to
// most-recently-used, and returns the stored value along with the
// remaining TTL, saturating at zero.
func (c *Cache) Get(key string) (value []string, ttlLeft time.Duration, ok bool) {
	e, found := c.lru.Get(key)
	if !found {
		atomic.AddUint64(&c.misses, 1)
		return nil, 0, false
	}

	now := c.clock.Now()
	remaining := e.expiresAt.Sub(now)
	if remaining <= 0 {
		c.lru.Remove(key)
		atomic.AddUint64(&c.misses, 1)
		return nil, 0, false
	}

	atomic.AddUint64(&c.hits, 1)
	return e.value, remaining, true
}

// Put stores value under key with the given TTL in seconds, overwriting
// and refreshing any existing entry. If the cache is at capacity and key
// is new, the least-recently-used entry is evicted.
func (c *Cache) Put(key string, value []string, ttlSeconds uint32) {
	expiresAt := c.clock.Now().Add(time.Duration(ttlSeconds) * time.Second)
	c.lru.Add(key, entry{value: value, expiresAt: expiresAt})
}

// PurgeExpired scans every entry and removes those that have already
// expired, without disturbing the recency order of entries that survive.
func (c *Cache) PurgeExpired() {
	now := c.clock.Now()
	for _, key := range c.lru.Keys() {
		e, ok := c.lru.Peek(key)
		if ok && !e.expiresAt.After(now) {
			c.lru.Remove(key)
		}
	}
}

// Hits returns the cumulative number of Get calls that found a live entry.
func (c *Cache) Hits() uint64 { return atomic.LoadUint64(&c.hits) }

// Misses returns the cumulative number of Get calls that found nothing
// usable, whether absent or expired.
func (c *Cache) Misses() uint64 { return atomic.LoadUint64(&c.misses) }

// Evictions returns the cumulative number of entries removed from the
// backing store: those evicted to make room for a new key at capacity, and
// expired entries removed by Get or PurgeExpired.
func (c *Cache) Evictions() uint64 { return atomic.LoadUint64(&c.evictions) }

// Size returns the current number of entries in the cache.
func (c *Cache) Size() int { return c.lru.Len() }
