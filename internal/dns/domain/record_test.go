package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewResourceRecord(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rr := NewResourceRecord("Example.COM.", RRTypeA, RRClassIN, 300, []byte{1, 2, 3, 4}, now)

	assert.Equal(t, "example.com", rr.Name)
	assert.Equal(t, RRTypeA, rr.Type)
	assert.Equal(t, RRClassIN, rr.Class)
	assert.Equal(t, uint32(300), rr.TTL())
	assert.Equal(t, now.Add(300*time.Second), rr.ExpiresAt())
}

func TestResourceRecord_TTLRemaining(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rr := NewResourceRecord("example.com", RRTypeA, RRClassIN, 60, nil, now)

	assert.Equal(t, 60*time.Second, rr.TTLRemaining(now))
	assert.Equal(t, 30*time.Second, rr.TTLRemaining(now.Add(30*time.Second)))
	assert.Equal(t, time.Duration(0), rr.TTLRemaining(now.Add(61*time.Second)))
}

func TestResourceRecord_IsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rr := NewResourceRecord("example.com", RRTypeA, RRClassIN, 10, nil, now)

	assert.False(t, rr.IsExpired(now))
	assert.False(t, rr.IsExpired(now.Add(9*time.Second)))
	assert.True(t, rr.IsExpired(now.Add(10*time.Second)))
	assert.True(t, rr.IsExpired(now.Add(11*time.Second)))
}

func TestResourceRecord_CacheKey(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewResourceRecord("example.com", RRTypeA, RRClassIN, 10, nil, now)
	aaaa := NewResourceRecord("example.com", RRTypeAAAA, RRClassIN, 10, nil, now)

	assert.Equal(t, GenerateCacheKey("example.com", RRTypeA), a.CacheKey())
	assert.NotEqual(t, a.CacheKey(), aaaa.CacheKey())
}
