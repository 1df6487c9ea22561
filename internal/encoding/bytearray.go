package encoding

import (
	"encoding/json"
	"fmt"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// ByteArray is a byte slice that marshals to JSON as an array of numbers
// instead of a Base64 string, matching the persisted wallet format.
type ByteArray []byte

// MarshalJSON implements json.Marshaler.
func (b ByteArray) MarshalJSON() ([]byte, error) {
	ints := make([]uint16, len(b))
	for i, v := range b {
		ints[i] = uint16(v)
	}
	return json.Marshal(ints)
}

// UnmarshalJSON implements json.Unmarshaler. Values outside 0..255 are rejected.
func (b *ByteArray) UnmarshalJSON(data []byte) error {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("byte array: %w", err))
	}
	out := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return walleterr.WithDetails(walleterr.ErrFormat, map[string]string{
				"reason": fmt.Sprintf("byte value %d out of range at index %d", v, i),
			})
		}
		out[i] = byte(v)
	}
	*b = out
	return nil
}
