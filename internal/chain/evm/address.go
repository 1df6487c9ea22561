// Package evm implements addresses, EIP-1559 transactions and EIP-191
// message signing for Ethereum and the EVM chains that share its format.
package evm

import (
	"encoding/hex"
	"strings"

	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// AddressLength is the length of an account address in bytes.
const AddressLength = 20

// AddressFromPublicKey returns the last 20 bytes of Keccak256 over the
// 64-byte X||Y of an uncompressed public key (with or without 0x04).
func AddressFromPublicKey(pub []byte) ([]byte, error) {
	switch {
	case len(pub) == 65 && pub[0] == 0x04:
		pub = pub[1:]
	case len(pub) == 64:
	default:
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", 65, len(pub))
	}
	return rusbycrypto.Keccak256(pub)[12:], nil
}

// ChecksumAddress renders a 20-byte address with the EIP-55 mixed-case
// checksum: a letter is uppercased when the matching nibble of
// Keccak256(lowercase hex) is 8 or more.
func ChecksumAddress(addr []byte) (string, error) {
	if len(addr) != AddressLength {
		return "", walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "address", AddressLength, len(addr))
	}

	lower := hex.EncodeToString(addr)
	hash := rusbycrypto.Keccak256([]byte(lower))

	out := make([]byte, 2+len(lower))
	out[0], out[1] = '0', 'x'
	for i := range len(lower) {
		c := lower[i]
		nibble := hash[i/2] >> 4
		if i%2 == 1 {
			nibble = hash[i/2] & 0x0f
		}
		if c >= 'a' && nibble >= 8 {
			c -= 'a' - 'A'
		}
		out[i+2] = c
	}
	return string(out), nil
}

// ParseAddress decodes a 0x-prefixed 40-hex-digit address. All-lowercase and
// all-uppercase forms are accepted as unchecksummed; mixed case must carry a
// valid EIP-55 checksum.
func ParseAddress(s string) ([]byte, error) {
	if len(s) != 2+2*AddressLength || !strings.HasPrefix(s, "0x") {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{"address": s})
	}
	body := s[2:]
	addr, err := hex.DecodeString(body)
	if err != nil {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{"address": s})
	}

	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return addr, nil
	}

	expected, err := ChecksumAddress(addr)
	if err != nil {
		return nil, err
	}
	if expected != s {
		return nil, walleterr.WithDetails(walleterr.ErrChecksum, map[string]string{
			"expected": expected,
			"actual":   s,
		})
	}
	return addr, nil
}

// DeriveAddress returns the checksummed address for an uncompressed public key.
func DeriveAddress(uncompressedPub []byte) (string, error) {
	addr, err := AddressFromPublicKey(uncompressedPub)
	if err != nil {
		return "", err
	}
	return ChecksumAddress(addr)
}
