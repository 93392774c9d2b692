package resolver

// DefaultRootServers is the hard-coded seed nameserver list used to start
// every delegation walk, per §6's "mix of public recursive resolvers and
// actual IANA root-server addresses". Implementations configure this as a
// constant rather than discovering it at runtime; internal/dns/config
// allows overriding it via DNS_RESOLVER_ROOT.
var DefaultRootServers = []string{
	"1.1.1.1",
	"8.8.8.8",
	"9.9.9.9",
	"198.41.0.4",     // a.root-servers.net
	"199.9.14.201",   // b.root-servers.net
	"192.33.4.12",    // c.root-servers.net
	"199.7.91.13",    // d.root-servers.net
	"192.203.230.10", // e.root-servers.net
	"192.5.5.241",    // f.root-servers.net
	"192.112.36.4",   // g.root-servers.net
	"198.97.190.53",  // h.root-servers.net
	"192.36.148.17",  // i.root-servers.net
}
