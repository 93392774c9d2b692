package resolver

import (
	"context"

	"github.com/halvorsen/dnswalk/internal/dns/domain"
)

var global *Resolver

// SetGlobal installs r as the package-level default resolver used by
// Resolve and ResolveWithTTL. Callers that want to provide their own cache
// and transport instantiate a Resolver directly via NewResolver instead.
func SetGlobal(r *Resolver) {
	global = r
}

// GetGlobal returns the current package-level default resolver, or nil if
// SetGlobal has never been called.
func GetGlobal() *Resolver {
	return global
}

// Resolve resolves name/qtype using the package-level default resolver.
func Resolve(ctx context.Context, name string, qtype domain.RRType) []string {
	return global.Resolve(ctx, name, qtype)
}

// ResolveWithTTL resolves name/qtype using the package-level default
// resolver.
func ResolveWithTTL(ctx context.Context, name string, qtype domain.RRType) domain.DNSResult {
	return global.ResolveWithTTL(ctx, name, qtype)
}
