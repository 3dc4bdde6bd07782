package claimtoken

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	errUnexpectedEnd = errors.New("unexpected end of payload")
	errInvalidUTF8   = errors.New("invalid UTF-8")
)

// Decode parses payload bytes into a ClaimRecord.
//
// Decode is a structural parser only: a zero serial or an empty string is
// returned as-is and left to ClaimRecord.Validate. Every read is bounds
// checked and advances the cursor, so the cost is linear in len(payload)
// whatever the input.
//
// Unknown keys holding an integer or string value are skipped. Duplicate
// known keys, truncated values, trailing bytes and invalid UTF-8 fail with
// ErrMalformedField; a well-formed map lacking a known key fails with
// ErrMissingField.
func Decode(payload []byte) (ClaimRecord, error) {
	var (
		rec  ClaimRecord
		seen [fieldCount]bool
		s    = scanner{buf: payload}
	)

	h, ok := s.next()
	if !ok {
		return ClaimRecord{}, malformed("empty payload")
	}
	if h&0xf0 != markerFixMap {
		return ClaimRecord{}, malformed("expected map header, got 0x%02x", h)
	}

	for i := range int(h & 0x0f) {
		key, err := s.readStr()
		if err != nil {
			return ClaimRecord{}, malformed("entry %d key: %v", i, err)
		}
		if len(key) != 1 {
			if err := s.skipValue(); err != nil {
				return ClaimRecord{}, malformed("entry %d value: %v", i, err)
			}
			continue
		}

		switch key[0] {
		case keySerial:
			if seen[0] {
				return ClaimRecord{}, malformed("duplicate key %q", key)
			}
			seen[0] = true
			if rec.SerialNumber, err = s.readUint(); err != nil {
				return ClaimRecord{}, malformed("serial number: %v", err)
			}
		case keyColor:
			if seen[1] {
				return ClaimRecord{}, malformed("duplicate key %q", key)
			}
			seen[1] = true
			if rec.Color, err = s.readText(); err != nil {
				return ClaimRecord{}, malformed("color: %v", err)
			}
		case keyProductType:
			if seen[2] {
				return ClaimRecord{}, malformed("duplicate key %q", key)
			}
			seen[2] = true
			if rec.ProductType, err = s.readText(); err != nil {
				return ClaimRecord{}, malformed("product type: %v", err)
			}
		default:
			if err := s.skipValue(); err != nil {
				return ClaimRecord{}, malformed("entry %d value: %v", i, err)
			}
		}
	}

	if s.remaining() != 0 {
		return ClaimRecord{}, malformed("%d trailing bytes", s.remaining())
	}

	for i, name := range [fieldCount]string{"serial number", "color", "product type"} {
		if !seen[i] {
			return ClaimRecord{}, invalid(fmt.Errorf("%w: %s", ErrMissingField, name))
		}
	}

	return rec, nil
}

func malformed(format string, args ...any) error {
	return invalid(fmt.Errorf("%w: %s", ErrMalformedField, fmt.Sprintf(format, args...)))
}

// scanner is a forward-only cursor over a payload.
type scanner struct {
	buf []byte
	pos int
}

func (s *scanner) remaining() int {
	return len(s.buf) - s.pos
}

func (s *scanner) next() (byte, bool) {
	if s.pos >= len(s.buf) {
		return 0, false
	}
	b := s.buf[s.pos]
	s.pos++
	return b, true
}

func (s *scanner) take(n int) ([]byte, error) {
	if n > s.remaining() {
		return nil, fmt.Errorf("need %d bytes, %d left", n, s.remaining())
	}
	b := s.buf[s.pos : s.pos+n]
	s.pos += n
	return b, nil
}

func (s *scanner) readUint() (uint64, error) {
	m, ok := s.next()
	if !ok {
		return 0, errUnexpectedEnd
	}
	if m <= maxPositiveFix {
		return uint64(m), nil
	}

	var width int
	switch m {
	case markerUint8:
		width = 1
	case markerUint16:
		width = 2
	case markerUint32:
		width = 4
	case markerUint64:
		width = 8
	default:
		return 0, fmt.Errorf("unexpected integer marker 0x%02x", m)
	}

	b, err := s.take(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(b)), nil
	default:
		return binary.BigEndian.Uint64(b), nil
	}
}

func (s *scanner) readStr() ([]byte, error) {
	m, ok := s.next()
	if !ok {
		return nil, errUnexpectedEnd
	}

	var n int
	switch {
	case m&0xe0 == markerFixStr:
		n = int(m & 0x1f)
	case m == markerStr8:
		l, ok := s.next()
		if !ok {
			return nil, errUnexpectedEnd
		}
		n = int(l)
	default:
		return nil, fmt.Errorf("unexpected string marker 0x%02x", m)
	}

	return s.take(n)
}

func (s *scanner) readText() (string, error) {
	b, err := s.readStr()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", errInvalidUTF8
	}
	return string(b), nil
}

// skipValue consumes one integer or string value.
func (s *scanner) skipValue() error {
	if s.remaining() == 0 {
		return errUnexpectedEnd
	}
	m := s.buf[s.pos]
	if m&0xe0 == markerFixStr || m == markerStr8 {
		_, err := s.readStr()
		return err
	}
	_, err := s.readUint()
	return err
}
