package wire

import (
	"net"

	"github.com/halvorsen/dnswalk/internal/dns/domain"
)

// acceptsType reports whether a record of actual type and class satisfies a
// query for expected type, per the filtering rule: a wildcard expectation
// (0) accepts any recognized type; otherwise the types must match exactly,
// except that A and AAAA are mutually accepted so a caller can take either
// address family back. A record of any class other than IN is rejected
// outright, same as an unrecognized type (§9: "one source path does not
// filter by QCLASS=IN").
func acceptsType(expected, actual domain.RRType, class domain.RRClass) bool {
	if class != domain.RRClassIN {
		return false
	}
	if expected == 0 {
		return true
	}
	if expected == actual {
		return true
	}
	if (expected == domain.RRTypeA || expected == domain.RRTypeAAAA) &&
		(actual == domain.RRTypeA || actual == domain.RRTypeAAAA) {
		return true
	}
	return false
}

// answerString renders one answer record's rdata as its textual
// presentation form, per the type table: dotted IPv4 for A, canonical
// IPv6 for AAAA, the target domain for CNAME, the exchange host for MX
// (skipping the 2-byte preference). Names embedded in rdata are decoded
// against the full message so an internal compression pointer resolves
// correctly. The second return is false for a type this resolver does not
// format, or rdata of the wrong length for its type.
func (m Message) answerString(rr domain.ResourceRecord, rdataOffset int) (string, bool) {
	switch rr.Type {
	case domain.RRTypeA:
		if len(rr.Data) != 4 {
			return "", false
		}
		return net.IP(rr.Data).String(), true
	case domain.RRTypeAAAA:
		if len(rr.Data) != 16 {
			return "", false
		}
		return net.IP(rr.Data).String(), true
	case domain.RRTypeCNAME:
		name, _, err := decodeName(m.raw, rdataOffset)
		if err != nil {
			return "", false
		}
		return name, true
	case domain.RRTypeMX:
		if len(rr.Data) < 3 {
			return "", false
		}
		name, _, err := decodeName(m.raw, rdataOffset+2)
		if err != nil {
			return "", false
		}
		return name, true
	default:
		return "", false
	}
}

// AnswerRecords returns the answer-section records whose type satisfies
// expectedQType per acceptsType, in section order.
func (m Message) AnswerRecords(expectedQType domain.RRType) []domain.ResourceRecord {
	var out []domain.ResourceRecord
	for _, rr := range m.Answers {
		if acceptsType(expectedQType, rr.Type, rr.Class) {
			out = append(out, rr)
		}
	}
	return out
}

// AnswerStrings converts the answer-section records whose type satisfies
// expectedQType into their textual presentation form. Records of a type
// this resolver does not format, or whose rdata length doesn't match their
// type, are silently skipped rather than aborting the whole response.
func (m Message) AnswerStrings(expectedQType domain.RRType) []string {
	var out []string
	for i, rr := range m.Answers {
		if !acceptsType(expectedQType, rr.Type, rr.Class) {
			continue
		}
		if s, ok := m.answerString(rr, m.answerRDOffsets[i]); ok {
			out = append(out, s)
		}
	}
	return out
}

// NSNames returns the target names of every NS record in the authority
// section, decoded from rdata against the full message.
func (m Message) NSNames() []string {
	var out []string
	for i, rr := range m.Authority {
		if rr.Type != domain.RRTypeNS || rr.Class != domain.RRClassIN {
			continue
		}
		name, _, err := decodeName(m.raw, m.authorityRDOffsets[i])
		if err != nil {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Glue returns the first A or AAAA address found in the additional section
// whose owner name matches nsName, and whether one was found. Records with
// an rdlength that doesn't match their type (4 for A, 16 for AAAA) are
// ignored, per the glue-extraction rule.
func (m Message) Glue(nsName string) (string, bool) {
	for _, rr := range m.Additional {
		if rr.Name != nsName || rr.Class != domain.RRClassIN {
			continue
		}
		switch rr.Type {
		case domain.RRTypeA:
			if len(rr.Data) == 4 {
				return net.IP(rr.Data).String(), true
			}
		case domain.RRTypeAAAA:
			if len(rr.Data) == 16 {
				return net.IP(rr.Data).String(), true
			}
		}
	}
	return "", false
}

// FirstCNAME returns the target name and TTL of the first CNAME record in
// the answer section, and whether one was found. Used when a direct answer
// for the query type is absent but the server has instead handed back an
// alias to chase.
func (m Message) FirstCNAME() (target string, ttl uint32, ok bool) {
	for i, rr := range m.Answers {
		if rr.Type != domain.RRTypeCNAME || rr.Class != domain.RRClassIN {
			continue
		}
		name, _, err := decodeName(m.raw, m.answerRDOffsets[i])
		if err != nil {
			continue
		}
		return name, rr.TTL(), true
	}
	return "", 0, false
}

// MinTTL returns the minimum TTL, in seconds, across the given records, or
// 0 if records is empty.
func MinTTL(records []domain.ResourceRecord) uint32 {
	if len(records) == 0 {
		return 0
	}
	min := records[0].TTL()
	for _, rr := range records[1:] {
		if rr.TTL() < min {
			min = rr.TTL()
		}
	}
	return min
}
