package wire

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/halvorsen/dnswalk/internal/dns/domain"
)

// headerSize is the fixed size, in bytes, of a DNS message header.
const headerSize = 12

// flagRD is the Recursion Desired bit of the 16-bit flags word.
const flagRD = uint16(0x0100)

// Header is the fixed 12-byte DNS message header, serialized field-by-field
// in network byte order rather than as a packed memory image.
type Header struct {
	ID      uint16
	Flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// RCode extracts the 4-bit response code from the flags word.
func (h Header) RCode() domain.RCode {
	return domain.RCode(h.Flags & 0x000F)
}

// Message is a fully decoded DNS message: header plus the four sections.
// Questions carries only the name/type/class of each question (no TTL or
// rdata); the remaining three sections carry parsed resource records.
//
// Names embedded inside rdata (a CNAME target, an NS target, an MX
// exchange) may themselves use compression pointers into the wider
// message, so Message retains the raw packet and the rdata start offset
// of each record alongside it; AnswerStrings and NSNames use these to
// resolve such names correctly.
type Message struct {
	Header     Header
	Questions  []domain.Query
	Answers    []domain.ResourceRecord
	Authority  []domain.ResourceRecord
	Additional []domain.ResourceRecord

	raw                []byte
	answerRDOffsets    []int
	authorityRDOffsets []int
}

func encodeHeader(buf []byte, h Header) {
	binary.BigEndian.PutUint16(buf[0:2], h.ID)
	binary.BigEndian.PutUint16(buf[2:4], h.Flags)
	binary.BigEndian.PutUint16(buf[4:6], h.QDCount)
	binary.BigEndian.PutUint16(buf[6:8], h.ANCount)
	binary.BigEndian.PutUint16(buf[8:10], h.NSCount)
	binary.BigEndian.PutUint16(buf[10:12], h.ARCount)
}

func decodeHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, fmt.Errorf("%w: header shorter than %d bytes", ErrMalformedPacket, headerSize)
	}
	return Header{
		ID:      binary.BigEndian.Uint16(data[0:2]),
		Flags:   binary.BigEndian.Uint16(data[2:4]),
		QDCount: binary.BigEndian.Uint16(data[4:6]),
		ANCount: binary.BigEndian.Uint16(data[6:8]),
		NSCount: binary.BigEndian.Uint16(data[8:10]),
		ARCount: binary.BigEndian.Uint16(data[10:12]),
	}, nil
}

// decodeQuestion reads one question entry (QNAME, QTYPE, QCLASS) starting
// at offset, returning the parsed query and the offset just past it.
func decodeQuestion(data []byte, offset int) (domain.Query, int, error) {
	name, offset, err := decodeName(data, offset)
	if err != nil {
		return domain.Query{}, 0, err
	}
	if offset+4 > len(data) {
		return domain.Query{}, 0, fmt.Errorf("%w: truncated question", ErrMalformedPacket)
	}
	qtype := domain.RRType(binary.BigEndian.Uint16(data[offset : offset+2]))
	qclass := domain.RRClass(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
	return domain.Query{Name: name, Type: qtype, Class: qclass}, offset + 4, nil
}

// decodeResourceRecord reads one resource record (owner, type, class, ttl,
// rdlength, rdata) starting at offset, returning the parsed record, the
// offset at which its rdata begins (names embedded in rdata may point
// elsewhere in the message and need this to resolve), and the offset just
// past the whole record. now is the arrival time used to compute expiry.
func decodeResourceRecord(data []byte, offset int, now time.Time) (domain.ResourceRecord, int, int, error) {
	name, offset, err := decodeName(data, offset)
	if err != nil {
		return domain.ResourceRecord{}, 0, 0, err
	}
	if offset+10 > len(data) {
		return domain.ResourceRecord{}, 0, 0, fmt.Errorf("%w: truncated record header", ErrMalformedPacket)
	}
	rrtype := domain.RRType(binary.BigEndian.Uint16(data[offset : offset+2]))
	rrclass := domain.RRClass(binary.BigEndian.Uint16(data[offset+2 : offset+4]))
	ttl := binary.BigEndian.Uint32(data[offset+4 : offset+8])
	rdlength := int(binary.BigEndian.Uint16(data[offset+8 : offset+10]))
	offset += 10
	rdataOffset := offset
	if offset+rdlength > len(data) {
		return domain.ResourceRecord{}, 0, 0, fmt.Errorf("%w: rdata runs past end of buffer", ErrMalformedPacket)
	}
	rdata := make([]byte, rdlength)
	copy(rdata, data[offset:offset+rdlength])
	offset += rdlength

	rr := domain.NewResourceRecord(name, rrtype, rrclass, ttl, rdata, now)
	return rr, rdataOffset, offset, nil
}

// DecodeMessage parses a raw DNS message. Parsing of the answer, authority,
// and additional sections fails soft: if a record runs past the end of the
// buffer or the name is malformed, decoding stops and returns whatever
// records were extracted so far rather than failing the whole message, per
// the resolver's tolerance for truncated replies. A header that is too
// short, or a question section that cannot be parsed, is still a hard
// error — there is nothing usable to return in that case.
func DecodeMessage(data []byte, now time.Time) (Message, error) {
	header, err := decodeHeader(data)
	if err != nil {
		return Message{}, err
	}

	offset := headerSize
	questions := make([]domain.Query, 0, header.QDCount)
	for i := 0; i < int(header.QDCount); i++ {
		q, newOffset, err := decodeQuestion(data, offset)
		if err != nil {
			return Message{}, fmt.Errorf("question %d: %w", i, err)
		}
		questions = append(questions, q)
		offset = newOffset
	}

	msg := Message{Header: header, Questions: questions, raw: data}

	msg.Answers, msg.answerRDOffsets, offset = decodeRRSectionBestEffort(data, offset, int(header.ANCount), now)
	msg.Authority, msg.authorityRDOffsets, offset = decodeRRSectionBestEffort(data, offset, int(header.NSCount), now)
	msg.Additional, _, _ = decodeRRSectionBestEffort(data, offset, int(header.ARCount), now)

	return msg, nil
}

// decodeRRSectionBestEffort decodes up to count resource records starting
// at offset, stopping early (without error) at the first record that
// cannot be parsed. It returns the records decoded, each one's rdata
// offset, and the offset just past the last one successfully parsed.
func decodeRRSectionBestEffort(data []byte, offset int, count int, now time.Time) ([]domain.ResourceRecord, []int, int) {
	records := make([]domain.ResourceRecord, 0, count)
	rdOffsets := make([]int, 0, count)
	for i := 0; i < count; i++ {
		rr, rdataOffset, newOffset, err := decodeResourceRecord(data, offset, now)
		if err != nil {
			return records, rdOffsets, offset
		}
		records = append(records, rr)
		rdOffsets = append(rdOffsets, rdataOffset)
		offset = newOffset
	}
	return records, rdOffsets, offset
}
