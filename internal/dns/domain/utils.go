package domain

import (
	"fmt"
	"strings"

	"github.com/halvorsen/dnswalk/internal/dns/common/utils"
)

// GenerateCacheKey returns a consistent cache key derived from a DNS name
// and query type. Class is fixed at IN throughout this resolver, so it is
// deliberately left out of the key.
func GenerateCacheKey(name string, t RRType) string {
	return fmt.Sprintf("%s:%d", utils.CanonicalDNSName(name), t)
}

// SplitLabels splits a canonical (no trailing dot) domain name into its
// individual labels. The root name ("") splits into zero labels.
func SplitLabels(name string) []string {
	name = utils.CanonicalDNSName(name)
	if name == "" {
		return nil
	}
	return strings.Split(name, ".")
}
