package encoding

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// checksumLen is the length of the double-SHA256 Base58Check checksum.
const checksumLen = 4

// Alphabets used by the supported chains.
//
//nolint:gochecknoglobals // immutable alphabet tables
var (
	// BitcoinAlphabet is used by Bitcoin, Litecoin, Dogecoin, Tron and Solana.
	BitcoinAlphabet = base58.BTCAlphabet

	// RippleAlphabet is the XRP Ledger alphabet, which starts with 'r'.
	RippleAlphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")
)

// Base58Encode encodes data with the Bitcoin alphabet.
func Base58Encode(data []byte) string {
	return Base58EncodeAlphabet(data, BitcoinAlphabet)
}

// Base58Decode decodes a Bitcoin-alphabet string.
func Base58Decode(s string) ([]byte, error) {
	return Base58DecodeAlphabet(s, BitcoinAlphabet)
}

// Base58EncodeAlphabet encodes data with the given alphabet.
// Leading zero bytes become leading copies of the alphabet's first character.
func Base58EncodeAlphabet(data []byte, alphabet *base58.Alphabet) string {
	if len(data) == 0 {
		return ""
	}
	return base58.EncodeAlphabet(data, alphabet)
}

// Base58DecodeAlphabet decodes s with the given alphabet.
func Base58DecodeAlphabet(s string, alphabet *base58.Alphabet) ([]byte, error) {
	if s == "" {
		return []byte{}, nil
	}
	out, err := base58.DecodeAlphabet(s, alphabet)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("base58: %w", err))
	}
	return out, nil
}

// Base58CheckEncode encodes version||payload||checksum, where checksum is the
// first four bytes of DoubleSHA256(version||payload).
func Base58CheckEncode(version, payload []byte, alphabet *base58.Alphabet) string {
	buf := make([]byte, 0, len(version)+len(payload)+checksumLen)
	buf = append(buf, version...)
	buf = append(buf, payload...)
	buf = append(buf, rusbycrypto.DoubleSHA256(buf)[:checksumLen]...)
	return Base58EncodeAlphabet(buf, alphabet)
}

// Base58CheckDecode verifies the checksum and splits the decoded bytes into
// a versionLen-byte version prefix and the payload.
func Base58CheckDecode(s string, versionLen int, alphabet *base58.Alphabet) (version, payload []byte, err error) {
	decoded, err := Base58DecodeAlphabet(s, alphabet)
	if err != nil {
		return nil, nil, err
	}
	if len(decoded) < versionLen+checksumLen {
		return nil, nil, walleterr.WithDetails(walleterr.ErrFormat, map[string]string{
			"reason": "base58check payload too short",
		})
	}

	body := decoded[:len(decoded)-checksumLen]
	sum := decoded[len(decoded)-checksumLen:]
	if !bytes.Equal(rusbycrypto.DoubleSHA256(body)[:checksumLen], sum) {
		return nil, nil, walleterr.ErrChecksum
	}
	return body[:versionLen], body[versionLen:], nil
}
