package domain

import (
	"time"

	"github.com/halvorsen/dnswalk/internal/dns/common/utils"
)

// ResourceRecord represents a single DNS resource record as parsed off the
// wire. Every record this resolver holds arrived in a response and carries
// an expiry computed from the TTL at the moment it was received — unlike
// the teacher's authoritative/cached split, this library never serves zone
// data of its own, so there is only one flavor of record.
type ResourceRecord struct {
	Name      string
	Type      RRType
	Class     RRClass
	ttl       uint32
	expiresAt time.Time
	Data      []byte // wire rdata, opaque until interpreted per Type
}

// NewResourceRecord constructs a ResourceRecord, computing its expiry from
// the supplied arrival time (now) and TTL.
func NewResourceRecord(name string, rrtype RRType, class RRClass, ttl uint32, data []byte, now time.Time) ResourceRecord {
	return ResourceRecord{
		Name:      utils.CanonicalDNSName(name),
		Type:      rrtype,
		Class:     class,
		ttl:       ttl,
		expiresAt: now.Add(time.Duration(ttl) * time.Second),
		Data:      data,
	}
}

// TTLRemaining returns the remaining TTL as of now, saturating at zero.
func (rr ResourceRecord) TTLRemaining(now time.Time) time.Duration {
	d := rr.expiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// TTL returns the original TTL the record was stored with.
func (rr ResourceRecord) TTL() uint32 {
	return rr.ttl
}

// ExpiresAt returns the absolute expiry instant.
func (rr ResourceRecord) ExpiresAt() time.Time {
	return rr.expiresAt
}

// IsExpired reports whether the record has expired as of now.
func (rr ResourceRecord) IsExpired(now time.Time) bool {
	return !now.Before(rr.expiresAt)
}

// CacheKey returns the cache key this record would be stored under.
func (rr ResourceRecord) CacheKey() string {
	return GenerateCacheKey(rr.Name, rr.Type)
}
