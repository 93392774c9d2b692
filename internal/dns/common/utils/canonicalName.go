package utils

import (
	"fmt"
	"strings"
)

// MaxNameWireLength is the maximum length, in wire-format bytes (length
// octets plus label bytes plus the terminating zero), a domain name may
// occupy per RFC 1035.
const MaxNameWireLength = 255

// MaxLabelLength is the maximum length, in bytes, of a single DNS label.
const MaxLabelLength = 63

// CanonicalDNSName returns a DNS name in canonical form:
//   - Lowercased
//   - Trimmed of surrounding whitespace
//   - Without a trailing dot
//
// The resolver treats names as logical dotted strings (§3 DomainName); the
// trailing root dot is wire-format furniture reintroduced only by the codec
// when it encodes a name onto the wire.
func CanonicalDNSName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	name = strings.TrimSuffix(name, ".")
	return name
}

// ValidateName checks a canonical domain name against the RFC 1035 length
// limits: each label must be 1-63 bytes, and the total wire-format length
// (length octets + label bytes + terminating zero) must not exceed 255.
func ValidateName(name string) error {
	name = CanonicalDNSName(name)
	if name == "" {
		return nil
	}
	wireLen := 1 // terminating zero octet
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 {
			return fmt.Errorf("empty label in domain name %q", name)
		}
		if len(label) > MaxLabelLength {
			return fmt.Errorf("label %q exceeds %d bytes", label, MaxLabelLength)
		}
		wireLen += len(label) + 1
	}
	if wireLen > MaxNameWireLength {
		return fmt.Errorf("domain name %q exceeds %d wire bytes", name, MaxNameWireLength)
	}
	return nil
}
