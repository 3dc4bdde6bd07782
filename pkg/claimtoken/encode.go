package claimtoken

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Marker bytes of the MessagePack subset used by the payload.
const (
	markerFixMap   = 0x80 // 0x80-0x8f, low nibble is the entry count
	markerFixStr   = 0xa0 // 0xa0-0xbf, low 5 bits are the byte length
	markerStr8     = 0xd9
	markerUint8    = 0xcc
	markerUint16   = 0xcd
	markerUint32   = 0xce
	markerUint64   = 0xcf
	maxPositiveFix = 0x7f
	maxFixStrLen   = 31
)

// MaxTextLength is the longest color or product type that can be encoded.
const MaxTextLength = math.MaxUint8

// Single-character map keys.
const (
	keySerial      = 'n'
	keyColor       = 'c'
	keyProductType = 't'
)

const fieldCount = 3

// Encode packs the record into its canonical payload bytes.
// Field order is fixed (serial, color, product type) so the output is
// reproducible by any verifier.
func Encode(r ClaimRecord) ([]byte, error) {
	if len(r.Color) > MaxTextLength {
		return nil, fmt.Errorf("%w: color is %d bytes", ErrFieldTooLong, len(r.Color))
	}
	if len(r.ProductType) > MaxTextLength {
		return nil, fmt.Errorf("%w: product type is %d bytes", ErrFieldTooLong, len(r.ProductType))
	}

	// map header + 3 keys (2 bytes each) + widest uint (9) + two str8 headers
	buf := make([]byte, 0, 1+3*2+9+2+len(r.Color)+2+len(r.ProductType))
	buf = append(buf, markerFixMap|fieldCount)

	buf = appendKey(buf, keySerial)
	buf = appendUint(buf, r.SerialNumber)

	buf = appendKey(buf, keyColor)
	buf = appendStr(buf, r.Color)

	buf = appendKey(buf, keyProductType)
	buf = appendStr(buf, r.ProductType)

	return buf, nil
}

func appendKey(b []byte, k byte) []byte {
	return append(b, markerFixStr|1, k)
}

func appendUint(b []byte, v uint64) []byte {
	switch {
	case v <= maxPositiveFix:
		return append(b, byte(v))
	case v <= math.MaxUint8:
		return append(b, markerUint8, byte(v))
	case v <= math.MaxUint16:
		return binary.BigEndian.AppendUint16(append(b, markerUint16), uint16(v))
	case v <= math.MaxUint32:
		return binary.BigEndian.AppendUint32(append(b, markerUint32), uint32(v))
	default:
		return binary.BigEndian.AppendUint64(append(b, markerUint64), v)
	}
}

func appendStr(b []byte, s string) []byte {
	if len(s) <= maxFixStrLen {
		b = append(b, markerFixStr|byte(len(s)))
	} else {
		b = append(b, markerStr8, byte(len(s)))
	}
	return append(b, s...)
}
