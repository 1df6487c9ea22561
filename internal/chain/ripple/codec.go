package ripple

import (
	"encoding/binary"
	"sort"
	"strconv"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Serialized type codes.
const (
	typeUInt16    = 1
	typeUInt32    = 2
	typeAmount    = 6
	typeBlob      = 7
	typeAccountID = 8
)

// Native amounts are at most 10^17 drops.
const MaxDrops uint64 = 100_000_000_000_000_000

const (
	amountPositiveBit = 0x4000000000000000
	maxVLLength       = 918744
)

type field struct {
	typeCode  uint8
	fieldCode uint8
	value     []byte
	signing   bool // included in the signing blob
}

func fieldHeader(typeCode, fieldCode uint8) []byte {
	switch {
	case typeCode < 16 && fieldCode < 16:
		return []byte{typeCode<<4 | fieldCode}
	case typeCode < 16:
		return []byte{typeCode << 4, fieldCode}
	case fieldCode < 16:
		return []byte{fieldCode, typeCode}
	default:
		return []byte{0, typeCode, fieldCode}
	}
}

func encodeVL(n int) ([]byte, error) {
	switch {
	case n < 0 || n > maxVLLength:
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{
			"reason": "variable length field too long",
			"length": strconv.Itoa(n),
		})
	case n <= 192:
		return []byte{byte(n)}, nil
	case n <= 12480:
		n -= 193
		return []byte{byte(193 + n>>8), byte(n)}, nil
	default:
		n -= 12481
		return []byte{byte(241 + n>>16), byte(n >> 8), byte(n)}, nil
	}
}

func uint16Field(code uint8, v uint16) field {
	return field{typeCode: typeUInt16, fieldCode: code, value: binary.BigEndian.AppendUint16(nil, v), signing: true}
}

func uint32Field(code uint8, v uint32) field {
	return field{typeCode: typeUInt32, fieldCode: code, value: binary.BigEndian.AppendUint32(nil, v), signing: true}
}

func amountField(code uint8, drops uint64) (field, error) {
	if drops > MaxDrops {
		return field{}, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{
			"reason": "amount exceeds the native maximum",
			"drops":  strconv.FormatUint(drops, 10),
		})
	}
	return field{
		typeCode:  typeAmount,
		fieldCode: code,
		value:     binary.BigEndian.AppendUint64(nil, drops|amountPositiveBit),
		signing:   true,
	}, nil
}

func vlField(typeCode, code uint8, data []byte, signing bool) (field, error) {
	prefix, err := encodeVL(len(data))
	if err != nil {
		return field{}, err
	}
	return field{typeCode: typeCode, fieldCode: code, value: append(prefix, data...), signing: signing}, nil
}

// serialize writes fields in canonical (type, field) order.
func serialize(fields []field, forSigning bool) []byte {
	sorted := make([]field, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].typeCode != sorted[j].typeCode {
			return sorted[i].typeCode < sorted[j].typeCode
		}
		return sorted[i].fieldCode < sorted[j].fieldCode
	})

	var out []byte
	for _, f := range sorted {
		if forSigning && !f.signing {
			continue
		}
		out = append(out, fieldHeader(f.typeCode, f.fieldCode)...)
		out = append(out, f.value...)
	}
	return out
}
