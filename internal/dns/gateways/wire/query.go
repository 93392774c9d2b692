package wire

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/halvorsen/dnswalk/internal/dns/domain"
)

// BuildQuery serializes a single-question query for name/qtype/IN,
// RD=1, drawing its transaction ID from a cryptographically secure source
// so upstream servers cannot predict it. It returns the encoded packet and
// the ID embedded in it, which the caller must match against the response.
func BuildQuery(name string, qtype domain.RRType) ([]byte, uint16, error) {
	qname, err := EncodeName(name)
	if err != nil {
		return nil, 0, err
	}

	var idBuf [2]byte
	if _, err := rand.Read(idBuf[:]); err != nil {
		return nil, 0, fmt.Errorf("generating transaction id: %w", err)
	}
	id := binary.BigEndian.Uint16(idBuf[:])

	buf := make([]byte, headerSize, headerSize+len(qname)+4)
	encodeHeader(buf, Header{
		ID:      id,
		Flags:   flagRD,
		QDCount: 1,
	})
	buf = append(buf, qname...)

	var typeClass [4]byte
	binary.BigEndian.PutUint16(typeClass[0:2], uint16(qtype))
	binary.BigEndian.PutUint16(typeClass[2:4], uint16(domain.RRClassIN))
	buf = append(buf, typeClass[:]...)

	return buf, id, nil
}
