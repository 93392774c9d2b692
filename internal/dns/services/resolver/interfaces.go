package resolver

import "time"

// Cache is the subset of repos/cache.Cache the resolver depends on. It is
// expressed as an interface here, rather than importing the concrete type
// directly, so tests can substitute an in-memory stub without pulling in
// hashicorp/golang-lru.
type Cache interface {
	Get(key string) (value []string, ttlLeft time.Duration, ok bool)
	Put(key string, value []string, ttlSeconds uint32)
}
