package encoding

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

//nolint:gochecknoglobals // immutable encoding
var base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)

// Base32Encode encodes data as unpadded RFC 4648 Base32.
func Base32Encode(data []byte) string {
	return base32NoPad.EncodeToString(data)
}

// Base32Decode decodes unpadded RFC 4648 Base32.
func Base32Decode(s string) ([]byte, error) {
	out, err := base32NoPad.DecodeString(s)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("base32: %w", err))
	}
	return out, nil
}

// Base64Encode encodes data as padded standard Base64.
func Base64Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Base64Decode decodes padded standard Base64.
func Base64Decode(s string) ([]byte, error) {
	out, err := base64.StdEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("base64: %w", err))
	}
	return out, nil
}

// Base64URLEncode encodes data as padded URL-safe Base64.
func Base64URLEncode(data []byte) string {
	return base64.URLEncoding.EncodeToString(data)
}

// Base64URLDecode decodes URL-safe Base64, padded or not.
func Base64URLDecode(s string) ([]byte, error) {
	enc := base64.URLEncoding
	if len(s)%4 != 0 {
		enc = base64.RawURLEncoding
	}
	out, err := enc.Strict().DecodeString(s)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("base64url: %w", err))
	}
	return out, nil
}

// HexEncode encodes data as lowercase hex without a prefix.
func HexEncode(data []byte) string {
	return hex.EncodeToString(data)
}

// HexEncode0x encodes data as lowercase hex with a 0x prefix.
func HexEncode0x(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

// HexDecode decodes hex with or without a 0x prefix, in either case.
func HexDecode(s string) ([]byte, error) {
	s = TrimHexPrefix(s)
	out, err := hex.DecodeString(s)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("hex: %w", err))
	}
	return out, nil
}

// TrimHexPrefix removes a leading 0x or 0X.
func TrimHexPrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:]
	}
	return s
}
