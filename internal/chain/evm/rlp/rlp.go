// Package rlp implements the subset of Recursive Length Prefix encoding
// needed for typed Ethereum transactions: byte strings, minimal big-endian
// integers and nested lists.
package rlp

import (
	"fmt"
	"math/big"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	stringOffset = 0x80
	listOffset   = 0xc0
	shortMax     = 55
)

// List is an RLP list. An empty List encodes as 0xc0.
type List []any

// Encode encodes val, which must be a []byte, string, uint64, *big.Int or
// List (possibly nested). Integers use the minimal big-endian form, so zero
// is the empty string 0x80. Negative big integers are rejected.
func Encode(val any) ([]byte, error) {
	switch v := val.(type) {
	case []byte:
		return encodeString(v), nil
	case string:
		return encodeString([]byte(v)), nil
	case uint64:
		return encodeString(minimalBytes(v)), nil
	case *big.Int:
		if v == nil {
			return encodeString(nil), nil
		}
		if v.Sign() < 0 {
			return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
				"reason": "rlp: negative integer",
			})
		}
		return encodeString(v.Bytes()), nil
	case List:
		return encodeList(v)
	default:
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
			"reason": fmt.Sprintf("rlp: unsupported type %T", val),
		})
	}
}

func encodeString(b []byte) []byte {
	if len(b) == 1 && b[0] < stringOffset {
		return []byte{b[0]}
	}
	out := header(stringOffset, len(b))
	return append(out, b...)
}

func encodeList(items List) ([]byte, error) {
	var payload []byte
	for i, item := range items {
		enc, err := Encode(item)
		if err != nil {
			return nil, fmt.Errorf("list item %d: %w", i, err)
		}
		payload = append(payload, enc...)
	}
	out := header(listOffset, len(payload))
	return append(out, payload...), nil
}

// header returns the prefix for a payload of size n. Payloads longer than
// 55 bytes carry their length as a minimal big-endian integer.
func header(offset byte, n int) []byte {
	if n <= shortMax {
		return []byte{offset + byte(n)} //nolint:gosec // n <= 55
	}
	lenBytes := minimalBytes(uint64(n))
	out := make([]byte, 0, 1+len(lenBytes)+n)
	out = append(out, offset+shortMax+byte(len(lenBytes))) //nolint:gosec // at most 8 length bytes
	return append(out, lenBytes...)
}

// minimalBytes returns v big-endian with leading zero bytes stripped.
func minimalBytes(v uint64) []byte {
	var buf [8]byte
	n := 0
	for x := v; x > 0; x >>= 8 {
		n++
	}
	for i := n - 1; i >= 0; i-- {
		buf[i] = byte(v)
		v >>= 8
	}
	return append([]byte(nil), buf[:n]...)
}
