// Package wire encodes and decodes DNS messages in the wire format defined
// by RFC 1035, including label compression.
package wire

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/halvorsen/dnswalk/internal/dns/common/utils"
)

// ErrInvalidName is returned by EncodeName when a label exceeds 63 bytes or
// the total encoded name exceeds 255 bytes.
var ErrInvalidName = errors.New("invalid name")

// ErrMalformedPacket is returned when a packet cannot be safely parsed:
// truncated data, an out-of-range offset, a pointer loop, or a reserved
// length-octet pattern.
var ErrMalformedPacket = errors.New("malformed packet")

// maxPointerJumps bounds the number of compression-pointer jumps decodeName
// will follow before giving up, defending against pointer cycles.
const maxPointerJumps = 16

// EncodeName writes domain as length-prefixed labels terminated by a zero
// octet, uncompressed. The empty domain encodes to a single zero octet.
func EncodeName(name string) ([]byte, error) {
	name = utils.CanonicalDNSName(name)
	if err := utils.ValidateName(name); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidName, err)
	}

	var buf bytes.Buffer
	if name == "" {
		buf.WriteByte(0)
		return buf.Bytes(), nil
	}
	for _, label := range strings.Split(name, ".") {
		buf.WriteByte(byte(len(label)))
		buf.WriteString(label)
	}
	buf.WriteByte(0)
	return buf.Bytes(), nil
}

// decodeName reads a domain name starting at offset, following compression
// pointers as needed. It returns the name and the offset to resume reading
// the surrounding message from: if no pointer was followed, that is the
// position just past the terminating zero; if one or more pointers were
// followed, it is frozen at the position just past the first pointer's two
// bytes.
func decodeName(data []byte, offset int) (string, int, error) {
	var labels []string
	jumps := 0
	cur := offset
	returnOffset := -1

	for {
		if cur < 0 || cur >= len(data) {
			return "", 0, fmt.Errorf("%w: name offset out of range", ErrMalformedPacket)
		}
		length := int(data[cur])

		if length&0xC0 == 0xC0 {
			if cur+1 >= len(data) {
				return "", 0, fmt.Errorf("%w: truncated compression pointer", ErrMalformedPacket)
			}
			ptr := (int(data[cur]&0x3F) << 8) | int(data[cur+1])
			if returnOffset == -1 {
				returnOffset = cur + 2
			}
			jumps++
			if jumps > maxPointerJumps {
				return "", 0, fmt.Errorf("%w: too many compression pointer jumps", ErrMalformedPacket)
			}
			if ptr >= cur {
				return "", 0, fmt.Errorf("%w: pointer does not move backward", ErrMalformedPacket)
			}
			cur = ptr
			continue
		}

		if length&0xC0 != 0 {
			return "", 0, fmt.Errorf("%w: reserved length octet", ErrMalformedPacket)
		}

		if length == 0 {
			cur++
			break
		}
		cur++
		if cur+length > len(data) {
			return "", 0, fmt.Errorf("%w: label runs past end of buffer", ErrMalformedPacket)
		}
		labels = append(labels, string(data[cur:cur+length]))
		cur += length
	}

	if returnOffset != -1 {
		cur = returnOffset
	}
	return strings.ToLower(strings.Join(labels, ".")), cur, nil
}

// SkipRR advances past one resource record (name, type, class, ttl,
// rdlength, rdata) without interpreting its contents, returning the offset
// just past it. Callers that only care about some sections of a message
// can use it to walk past the ones they don't.
func SkipRR(data []byte, offset int) (int, error) {
	_, offset, err := decodeName(data, offset)
	if err != nil {
		return 0, err
	}
	if offset+10 > len(data) {
		return 0, fmt.Errorf("%w: truncated record header", ErrMalformedPacket)
	}
	rdlength := int(data[offset+8])<<8 | int(data[offset+9])
	offset += 10
	if offset+rdlength > len(data) {
		return 0, fmt.Errorf("%w: rdata runs past end of buffer", ErrMalformedPacket)
	}
	return offset + rdlength, nil
}
