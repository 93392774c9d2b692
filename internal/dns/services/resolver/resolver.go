// Package resolver drives the iterative delegation walk from a seed set of
// root nameservers to an authoritative answer, chasing CNAMEs and following
// referrals along the way, per §4.4.
package resolver

import (
	"context"
	"time"

	"github.com/halvorsen/dnswalk/internal/dns/common/clock"
	"github.com/halvorsen/dnswalk/internal/dns/common/log"
	"github.com/halvorsen/dnswalk/internal/dns/domain"
	"github.com/halvorsen/dnswalk/internal/dns/gateways/transport"
	"github.com/halvorsen/dnswalk/internal/dns/gateways/wire"
)

// DefaultTimeout is the per-query receive deadline used when Options.Timeout
// is zero.
const DefaultTimeout = 3 * time.Second

// DefaultMaxDepth bounds the combined recursion depth of CNAME chasing and
// NS-name sub-resolution, per §5/§9's "cap total recursion depth".
const DefaultMaxDepth = 16

// nxdomainFloor is the minimum TTL, in seconds, an NXDOMAIN result is cached
// for, per §4.4's edge-case policy.
const nxdomainFloor = 60

// ttlFloor is the TTL, in seconds, a successful answer is cached for when
// its computed TTL is zero, to avoid cache thrash. Non-zero TTLs are stored
// as they are.
const ttlFloor = 60

// Options configures a Resolver. Every field has a usable zero value;
// NewResolver fills in defaults for anything left unset.
type Options struct {
	Transport   transport.Transport
	Cache       Cache
	Clock       clock.Clock
	Logger      log.Logger
	Timeout     time.Duration
	RootServers []string
	MaxDepth    int
}

// Resolver implements the iterative, delegation-walking resolution
// described in §4.4. It never returns an error across Resolve or
// ResolveWithTTL: every failure mode converts to an empty DNSResult, per
// §7's "the resolver never throws across its public boundary".
type Resolver struct {
	transport   transport.Transport
	cache       Cache
	clock       clock.Clock
	logger      log.Logger
	timeout     time.Duration
	rootServers []string
	maxDepth    int
}

// NewResolver builds a Resolver from opts, defaulting Clock to the real
// wall clock, Logger to the package global, Timeout to DefaultTimeout,
// RootServers to DefaultRootServers, and MaxDepth to DefaultMaxDepth.
func NewResolver(opts Options) *Resolver {
	r := &Resolver{
		transport:   opts.Transport,
		cache:       opts.Cache,
		clock:       opts.Clock,
		logger:      opts.Logger,
		timeout:     opts.Timeout,
		rootServers: opts.RootServers,
		maxDepth:    opts.MaxDepth,
	}
	if r.clock == nil {
		r.clock = clock.RealClock{}
	}
	if r.logger == nil {
		r.logger = log.GetLogger()
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if len(r.rootServers) == 0 {
		r.rootServers = DefaultRootServers
	}
	if r.maxDepth <= 0 {
		r.maxDepth = DefaultMaxDepth
	}
	return r
}

// Resolve is the legacy no-TTL form: an empty list means no answer or
// failure, with no way to distinguish the two. Prefer ResolveWithTTL.
func (r *Resolver) Resolve(ctx context.Context, name string, qtype domain.RRType) []string {
	return r.ResolveWithTTL(ctx, name, qtype).Answers
}

// ResolveWithTTL walks the delegation hierarchy for (name, qtype) and
// returns the resulting answer set, its minimum TTL, and whether the name
// was proven not to exist.
func (r *Resolver) ResolveWithTTL(ctx context.Context, name string, qtype domain.RRType) domain.DNSResult {
	q := domain.NewQuery(name, qtype, domain.RRClassIN)
	if err := q.Validate(); err != nil {
		r.logger.Warn(map[string]any{"query": name, "error": err.Error()}, "rejecting invalid query")
		return domain.DNSResult{Query: q}
	}
	budget := r.maxDepth
	return r.resolveInternal(ctx, q, map[string]struct{}{}, &budget)
}

// resolveInternal is the shared iterative walk behind both Resolve and
// ResolveWithTTL, and behind CNAME chasing and NS-name sub-resolution
// (which recurse into it directly). visited tracks CNAME targets already
// followed within the current chase, to detect loops (§4.4); budget is a
// shared, decrementing recursion-depth counter spanning both CNAME chasing
// and NS-name sub-resolution, per §5/§9.
func (r *Resolver) resolveInternal(ctx context.Context, q domain.Query, visited map[string]struct{}, budget *int) domain.DNSResult {
	if *budget <= 0 {
		r.logger.Warn(map[string]any{"query": q.String()}, "recursion depth exhausted")
		return domain.DNSResult{Query: q}
	}
	*budget--

	key := q.CacheKey()
	if cached, ttlLeft, ok := r.cache.Get(key); ok {
		r.logger.Debug(map[string]any{"query": q.String()}, "cache hit")
		ttl := ttlSeconds(ttlLeft)
		if len(cached) == 0 {
			return domain.DNSResult{Query: q, NXDomain: true, MinTTL: ttl}
		}
		return domain.DNSResult{Query: q, Answers: cached, MinTTL: ttl}
	}
	r.logger.Debug(map[string]any{"query": q.String()}, "cache miss")

	nameservers := r.rootServers

	for len(nameservers) > 0 {
		replaced := false

		for _, nsIP := range nameservers {
			packet, id, err := wire.BuildQuery(q.Name, q.Type)
			if err != nil {
				r.logger.Warn(map[string]any{"query": q.String(), "error": err.Error()}, "failed to build query")
				return domain.DNSResult{Query: q}
			}

			raw, err := r.transport.SendAndRecv(ctx, packet, nsIP, 53, r.timeout)
			if err != nil {
				r.logger.Debug(map[string]any{"query": q.String(), "nameserver": nsIP, "error": err.Error()}, "transport failure, trying next nameserver")
				continue
			}

			msg, err := wire.DecodeMessage(raw, r.clock.Now())
			if err != nil {
				r.logger.Debug(map[string]any{"query": q.String(), "nameserver": nsIP, "error": err.Error()}, "malformed response, trying next nameserver")
				continue
			}
			if msg.Header.ID != id {
				r.logger.Debug(map[string]any{"query": q.String(), "nameserver": nsIP}, "transaction id mismatch, trying next nameserver")
				continue
			}

			if msg.Header.RCode() == domain.RCode(3) {
				r.logger.Debug(map[string]any{"query": q.String(), "nameserver": nsIP}, "nxdomain")
				r.cache.Put(key, []string{}, nxdomainFloor)
				return domain.DNSResult{Query: q, NXDomain: true, MinTTL: nxdomainFloor}
			}

			if result, ok := r.handleAnswers(ctx, q, msg, visited, budget, key); ok {
				return result
			}

			if nextHop := r.resolveReferral(ctx, q, msg, budget); len(nextHop) > 0 {
				r.logger.Debug(map[string]any{"query": q.String(), "nameserver": nsIP, "next_hop": nextHop}, "following referral")
				nameservers = nextHop
				replaced = true
				break
			}

			r.logger.Debug(map[string]any{"query": q.String(), "nameserver": nsIP}, "nothing useful in response, trying next nameserver")
		}

		if !replaced {
			break
		}
	}

	r.logger.Warn(map[string]any{"query": q.String()}, "nameserver list exhausted with no answer")
	return domain.DNSResult{Query: q}
}

// handleAnswers inspects a response's answer section for either a direct
// answer to q or a CNAME to chase, per §4.4's "answers present" branch. The
// second return is false when the answer section had nothing relevant, in
// which case the caller should fall through to referral handling.
func (r *Resolver) handleAnswers(ctx context.Context, q domain.Query, msg wire.Message, visited map[string]struct{}, budget *int, key string) (domain.DNSResult, bool) {
	accepted := msg.AnswerRecords(q.Type)
	if len(accepted) > 0 {
		answers := msg.AnswerStrings(q.Type)
		minTTL := wire.MinTTL(accepted)
		r.cachePut(key, answers, minTTL)
		return domain.DNSResult{Query: q, Answers: answers, MinTTL: minTTL}, true
	}

	if q.Type != domain.RRTypeA && q.Type != domain.RRTypeAAAA {
		return domain.DNSResult{}, false
	}

	target, cnameTTL, ok := msg.FirstCNAME()
	if !ok {
		return domain.DNSResult{}, false
	}

	if _, seen := visited[target]; seen {
		r.logger.Warn(map[string]any{"query": q.String(), "target": target}, "cname loop detected")
		return domain.DNSResult{Query: q}, true
	}
	visited[target] = struct{}{}

	r.logger.Debug(map[string]any{"query": q.String(), "target": target}, "chasing cname")
	chain := r.resolveInternal(ctx, domain.NewQuery(target, q.Type, domain.RRClassIN), visited, budget)
	if len(chain.Answers) == 0 {
		return domain.DNSResult{Query: q, NXDomain: chain.NXDomain, MinTTL: chain.MinTTL}, true
	}

	minTTL := minTTLUnconstrainedAtZero(cnameTTL, chain.MinTTL)
	r.cachePut(key, chain.Answers, minTTL)
	return domain.DNSResult{Query: q, Answers: chain.Answers, MinTTL: minTTL}, true
}

// resolveReferral extracts NS names from the authority section and resolves
// each to an address, preferring glue in the additional section and falling
// back to a recursive A lookup of the NS name, per §4.4's referral branch.
// It returns the resolved next-hop addresses, or nil if none could be
// obtained (in which case the referral is abandoned).
func (r *Resolver) resolveReferral(ctx context.Context, q domain.Query, msg wire.Message, budget *int) []string {
	nsNames := msg.NSNames()
	if len(nsNames) == 0 {
		return nil
	}

	var nextHop []string
	for _, ns := range nsNames {
		if ip, ok := msg.Glue(ns); ok {
			nextHop = append(nextHop, ip)
			continue
		}

		r.logger.Debug(map[string]any{"query": q.String(), "nameserver_name": ns}, "resolving nameserver without glue")
		sub := r.resolveInternal(ctx, domain.NewQuery(ns, domain.RRTypeA, domain.RRClassIN), map[string]struct{}{}, budget)
		if len(sub.Answers) > 0 {
			nextHop = append(nextHop, sub.Answers[0])
		}
	}
	return nextHop
}

// cachePut stores value under key with ttl seconds, flooring a zero TTL to
// ttlFloor per §4.4's cache-thrash policy.
func (r *Resolver) cachePut(key string, value []string, ttl uint32) {
	if ttl == 0 {
		ttl = ttlFloor
	}
	r.cache.Put(key, value, ttl)
}

// ttlSeconds converts a remaining duration to whole seconds, saturating at
// zero for a non-positive remainder.
func ttlSeconds(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(d / time.Second)
}

// minTTLUnconstrainedAtZero returns the minimum of a and b, treating a zero
// value as "no constraint" rather than the smallest possible TTL, per
// §4.4's CNAME chase TTL rule.
func minTTLUnconstrainedAtZero(a, b uint32) uint32 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	if a < b {
		return a
	}
	return b
}
