// Package stellar encodes StrKey account ids and signs native payments as
// XDR transaction envelopes.
package stellar

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/rusbywallet/rusby/internal/encoding"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// VersionAccountID is the StrKey version byte of a public account id ('G').
const VersionAccountID byte = 6 << 3

// EncodeStrKey renders version || payload || CRC16-XMODEM (little-endian)
// as unpadded Base32.
func EncodeStrKey(version byte, payload []byte) string {
	data := make([]byte, 0, 1+len(payload)+2)
	data = append(data, version)
	data = append(data, payload...)
	data = binary.LittleEndian.AppendUint16(data, encoding.CRC16XMODEM(data))
	return encoding.Base32Encode(data)
}

// DecodeStrKey verifies the version and checksum and returns the payload.
func DecodeStrKey(version byte, s string) ([]byte, error) {
	raw, err := encoding.Base32Decode(s)
	if err != nil {
		return nil, err
	}
	if len(raw) < 3 {
		return nil, walleterr.LengthMismatch(walleterr.ErrFormat, "strkey", 3, len(raw))
	}
	body, sum := raw[:len(raw)-2], raw[len(raw)-2:]
	if binary.LittleEndian.Uint16(sum) != encoding.CRC16XMODEM(body) {
		return nil, walleterr.ErrChecksum
	}
	if body[0] != version {
		return nil, walleterr.WithDetails(walleterr.ErrFormat, map[string]string{"reason": "unexpected strkey version"})
	}
	return body[1:], nil
}

// DeriveAddress returns the G... account id of an Ed25519 public key.
func DeriveAddress(pub []byte) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", ed25519.PublicKeySize, len(pub))
	}
	return EncodeStrKey(VersionAccountID, pub), nil
}

// DecodeAddress returns the public key behind a G... account id.
func DecodeAddress(addr string) ([]byte, error) {
	pub, err := DecodeStrKey(VersionAccountID, addr)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "public key", ed25519.PublicKeySize, len(pub))
	}
	return pub, nil
}
