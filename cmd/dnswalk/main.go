// Command dnswalk is the CLI front-end over the iterative resolver: a
// positional domain, a record-type flag, and trace/bench/show-ttl modes
// for inspecting cache behavior, per §6 and SPEC_FULL.md's supplemented
// CLI surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/halvorsen/dnswalk/internal/dns/common/log"
	"github.com/halvorsen/dnswalk/internal/dns/config"
	"github.com/halvorsen/dnswalk/internal/dns/domain"
	"github.com/halvorsen/dnswalk/internal/dns/gateways/transport"
	"github.com/halvorsen/dnswalk/internal/dns/repos/cache"
	"github.com/halvorsen/dnswalk/internal/dns/services/resolver"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("dnswalk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage:\n  dnswalk <domain> [--type=A|AAAA|MX|CNAME] [--trace] [--show-ttl] [--bench=N]\n"+
			"Examples:\n  dnswalk example.com\n  dnswalk example.com --type=AAAA --trace\n  dnswalk example.com --bench=100\n")
	}

	qtypeStr := fs.String("type", "A", "record type to query: A, AAAA, MX, or CNAME")
	trace := fs.Bool("trace", false, "print per-attempt HIT/MISS lines and elapsed time")
	showTTL := fs.Bool("show-ttl", false, "print the remaining TTL for the cached (domain,type) entry and exit")
	bench := fs.Int("bench", 1, "execute N resolves back-to-back and print hit/miss/timing totals")

	// flag stops at the first positional argument, so keep parsing after
	// each one to accept flags on either side of the domain.
	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return 1
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}
	if len(positional) != 1 {
		fs.Usage()
		return 1
	}
	domainArg := positional[0]

	qtype := domain.RRTypeFromString(*qtypeStr)
	if qtype == 0 {
		fmt.Fprintf(stderr, "Error: Unsupported record type %q.\n", *qtypeStr)
		fs.Usage()
		return 1
	}

	if *bench < 1 {
		*bench = 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}
	if err := log.Configure(cfg.Env, cfg.Log.Level); err != nil {
		fmt.Fprintf(stderr, "Logging configuration error: %v\n", err)
		return 1
	}

	dnsCache, err := cache.New(cfg.Resolver.CacheSize)
	if err != nil {
		fmt.Fprintf(stderr, "Cache initialization error: %v\n", err)
		return 1
	}

	r := resolver.NewResolver(resolver.Options{
		Transport:   transport.NewUDPTransport(),
		Cache:       dnsCache,
		Timeout:     cfg.Resolver.TimeoutDuration(),
		RootServers: cfg.Resolver.Root,
		MaxDepth:    cfg.Resolver.MaxDepth,
	})

	cacheKey := domain.GenerateCacheKey(domainArg, qtype)

	if *showTTL {
		if _, ttlLeft, ok := dnsCache.Get(cacheKey); ok {
			fmt.Fprintf(stdout, "Cache TTL remaining for %s (type=%s): %ds\n", domainArg, *qtypeStr, int(ttlLeft/time.Second))
		} else {
			fmt.Fprintf(stdout, "No unexpired cache entry for %s (type=%s).\n", domainArg, *qtypeStr)
		}
		return 0
	}

	ctx := context.Background()
	benchStart := time.Now()

	var answers []string
	var ttlLeft time.Duration
	for run := 1; run <= *bench; run++ {
		start := time.Now()
		cached, left, hit := dnsCache.Get(cacheKey)
		if hit {
			answers = cached
			ttlLeft = left
			if *trace {
				fmt.Fprintf(stdout, "[HIT ] %s type=%s ttl_left=%ds\n", domainArg, *qtypeStr, int(ttlLeft/time.Second))
			}
		} else {
			res := r.ResolveWithTTL(ctx, domainArg, qtype)
			answers = res.Answers
			cachedTTL := res.MinTTL
			if res.NXDomain && cachedTTL < 60 {
				cachedTTL = 60
			}
			ttlLeft = time.Duration(cachedTTL) * time.Second
			if *trace {
				fmt.Fprintf(stdout, "[MISS] %s type=%s cached_ttl=%ds\n", domainArg, *qtypeStr, cachedTTL)
			}
		}

		elapsed := time.Since(start)
		if *bench == 1 {
			if len(answers) == 0 {
				fmt.Fprintf(stdout, "No records found for %s (type=%s).\n", domainArg, *qtypeStr)
			} else {
				fmt.Fprintf(stdout, "Resolved %s (type=%s) in %d ms:\n", domainArg, *qtypeStr, elapsed.Milliseconds())
				for _, a := range answers {
					fmt.Fprintf(stdout, "  - %s\n", a)
				}
				if *trace {
					fmt.Fprintf(stdout, "TTL remaining (approx): %ds\n", int(ttlLeft/time.Second))
				}
			}
		} else if *trace {
			fmt.Fprintf(stdout, "[run %d/%d] %d ms\n", run, *bench, elapsed.Milliseconds())
		}
	}

	if *bench > 1 {
		totalMS := time.Since(benchStart).Milliseconds()
		fmt.Fprintf(stdout, "Benchmark: %d runs in %d ms\n", *bench, totalMS)
		fmt.Fprintf(stdout, "Cache stats: hits=%d misses=%d\n", dnsCache.Hits(), dnsCache.Misses())
	}

	return 0
}
