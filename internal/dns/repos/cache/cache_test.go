package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halvorsen/dnswalk/internal/dns/common/clock"
)

func newTestCache(t *testing.T, capacity int) (*Cache, *clock.MockClock) {
	t.Helper()
	clk := &clock.MockClock{CurrentTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c, err := NewWithClock(capacity, clk)
	require.NoError(t, err)
	return c, clk
}

// Law 5: an immediate get after a put with ttl>0 returns the value with
// ttl_left <= ttl and ttl_left > 0.
func TestCache_GetImmediatelyAfterPut(t *testing.T) {
	c, _ := newTestCache(t, 4)
	c.Put("example.com:1", []string{"93.184.216.34"}, 300)

	value, ttlLeft, ok := c.Get("example.com:1")
	require.True(t, ok)
	assert.Equal(t, []string{"93.184.216.34"}, value)
	assert.True(t, ttlLeft > 0)
	assert.True(t, ttlLeft <= 300*time.Second)
}

// Law 6: after ttl seconds of simulated time, get returns a miss and the
// entry is gone.
func TestCache_ExpiresAfterTTL(t *testing.T) {
	c, clk := newTestCache(t, 4)
	c.Put("example.com:1", []string{"93.184.216.34"}, 60)

	clk.Advance(60 * time.Second)

	_, _, ok := c.Get("example.com:1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

// Law 7: with capacity C, inserting C+1 distinct keys leaves size==C, and
// the first-inserted, never-accessed key is the one evicted.
func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(t, 2)
	c.Put("a:1", []string{"1.1.1.1"}, 300)
	c.Put("b:1", []string{"2.2.2.2"}, 300)
	c.Put("c:1", []string{"3.3.3.3"}, 300)

	assert.Equal(t, 2, c.Size())
	_, _, ok := c.Get("a:1")
	assert.False(t, ok, "first-inserted, never-accessed key should have been evicted")
	_, _, ok = c.Get("b:1")
	assert.True(t, ok)
	_, _, ok = c.Get("c:1")
	assert.True(t, ok)
}

// Law 8: a get on an unexpired key promotes it to MRU, so it survives
// eviction over a newly-inserted-but-unused key.
func TestCache_GetPromotesToMRU(t *testing.T) {
	c, _ := newTestCache(t, 2)
	c.Put("a:1", []string{"1.1.1.1"}, 300)
	c.Put("b:1", []string{"2.2.2.2"}, 300)

	_, _, ok := c.Get("a:1") // promote a to MRU; b is now LRU
	require.True(t, ok)

	c.Put("c:1", []string{"3.3.3.3"}, 300) // should evict b, not a

	_, _, ok = c.Get("a:1")
	assert.True(t, ok)
	_, _, ok = c.Get("b:1")
	assert.False(t, ok)
	_, _, ok = c.Get("c:1")
	assert.True(t, ok)
}

func TestCache_PutOverwritesAndRefreshesExisting(t *testing.T) {
	c, clk := newTestCache(t, 4)
	c.Put("a:1", []string{"1.1.1.1"}, 10)
	clk.Advance(5 * time.Second)
	c.Put("a:1", []string{"9.9.9.9"}, 10)

	value, ttlLeft, ok := c.Get("a:1")
	require.True(t, ok)
	assert.Equal(t, []string{"9.9.9.9"}, value)
	assert.True(t, ttlLeft > 5*time.Second)
	assert.Equal(t, 1, c.Size())
}

func TestCache_PurgeExpired(t *testing.T) {
	c, clk := newTestCache(t, 4)
	c.Put("a:1", []string{"1.1.1.1"}, 10)
	c.Put("b:1", []string{"2.2.2.2"}, 1000)

	clk.Advance(11 * time.Second)
	c.PurgeExpired()

	assert.Equal(t, 1, c.Size())
	_, _, ok := c.Get("b:1")
	assert.True(t, ok)
}

func TestCache_HitMissCountersMonotonic(t *testing.T) {
	c, _ := newTestCache(t, 4)
	c.Put("a:1", []string{"1.1.1.1"}, 300)

	c.Get("a:1")      // hit
	c.Get("missing:1") // miss

	assert.Equal(t, uint64(1), c.Hits())
	assert.Equal(t, uint64(1), c.Misses())
}

func TestCache_DefaultCapacityWhenNonPositive(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	assert.NotNil(t, c)
}
