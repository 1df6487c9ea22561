package encoding

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Bech32Encode encodes 8-bit data under hrp using the original Bech32 checksum.
func Bech32Encode(hrp string, data []byte) (string, error) {
	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("bech32: %w", err))
	}
	s, err := bech32.Encode(hrp, conv)
	if err != nil {
		return "", walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("bech32: %w", err))
	}
	return s, nil
}

// Bech32Decode decodes a Bech32 string into its hrp and 8-bit data.
func Bech32Decode(s string) (string, []byte, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return "", nil, bech32Error(err)
	}
	conv, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("bech32: %w", err))
	}
	return hrp, conv, nil
}

// SegWitEncode encodes a version 0 witness program (20 or 32 bytes).
func SegWitEncode(hrp string, program []byte) (string, error) {
	if len(program) != 20 && len(program) != 32 {
		return "", walleterr.LengthMismatch(walleterr.ErrFormat, "witness program", 20, len(program))
	}
	conv, err := bech32.ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("segwit: %w", err))
	}
	s, err := bech32.Encode(hrp, append([]byte{0}, conv...))
	if err != nil {
		return "", walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("segwit: %w", err))
	}
	return s, nil
}

// SegWitDecode decodes a version 0 witness address and checks its hrp.
func SegWitDecode(expectedHRP, addr string) ([]byte, error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return nil, bech32Error(err)
	}
	if hrp != expectedHRP {
		return nil, walleterr.WithDetails(walleterr.ErrFormat, map[string]string{
			"expected_hrp": expectedHRP,
			"actual_hrp":   hrp,
		})
	}
	if len(data) < 1 || data[0] != 0 {
		return nil, walleterr.WithDetails(walleterr.ErrFormat, map[string]string{
			"reason": "unsupported witness version",
		})
	}
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("segwit: %w", err))
	}
	if len(program) != 20 && len(program) != 32 {
		return nil, walleterr.LengthMismatch(walleterr.ErrFormat, "witness program", 20, len(program))
	}
	return program, nil
}

func bech32Error(err error) error {
	var checksumErr bech32.ErrInvalidChecksum
	if errors.As(err, &checksumErr) {
		return walleterr.WithCause(walleterr.ErrChecksum, err)
	}
	return walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("bech32: %w", err))
}
