package domain

import (
	"fmt"

	"github.com/halvorsen/dnswalk/internal/dns/common/utils"
)

// Query represents a single DNS question: a name, type, and class to
// resolve. It is used both for the question the caller asks of the
// resolver and for each question the resolver issues upstream while
// walking the referral chain.
type Query struct {
	Name  string
	Type  RRType
	Class RRClass
}

// NewQuery builds a Query, canonicalizing the name and defaulting Class to
// IN when zero.
func NewQuery(name string, t RRType, class RRClass) Query {
	if class == 0 {
		class = RRClassIN
	}
	return Query{
		Name:  utils.CanonicalDNSName(name),
		Type:  t,
		Class: class,
	}
}

// Validate checks that the query's name is well formed and its type and
// class are recognized.
func (q Query) Validate() error {
	if err := utils.ValidateName(q.Name); err != nil {
		return err
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("invalid query type %d", q.Type)
	}
	if !q.Class.IsValid() {
		return fmt.Errorf("invalid query class %d", q.Class)
	}
	return nil
}

// CacheKey returns the cache key under which an answer to this query would
// be stored.
func (q Query) CacheKey() string {
	return GenerateCacheKey(q.Name, q.Type)
}

// String renders the query in "name TYPE" form for logging.
func (q Query) String() string {
	return fmt.Sprintf("%s %s", q.Name, q.Type)
}
