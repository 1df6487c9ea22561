// Package ripple derives XRP Ledger classic addresses and signs native XRP
// payments using the canonical binary codec.
package ripple

import (
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// AccountIDLength is the length of an account id.
const AccountIDLength = 20

var accountVersion = []byte{0x00}

// EncodeAccountID renders a 20-byte account id as a classic address.
func EncodeAccountID(id []byte) (string, error) {
	if len(id) != AccountIDLength {
		return "", walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "account id", AccountIDLength, len(id))
	}
	return encoding.Base58CheckEncode(accountVersion, id, encoding.RippleAlphabet), nil
}

// DeriveAddress returns the classic address of a compressed public key.
func DeriveAddress(compressedPub []byte) (string, error) {
	if len(compressedPub) != 33 {
		return "", walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", 33, len(compressedPub))
	}
	return EncodeAccountID(rusbycrypto.Hash160(compressedPub))
}

// DecodeAddress returns the account id of a classic address.
func DecodeAddress(addr string) ([]byte, error) {
	version, payload, err := encoding.Base58CheckDecode(addr, len(accountVersion), encoding.RippleAlphabet)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	if version[0] != accountVersion[0] {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidAddress, map[string]string{"reason": "not an account address"})
	}
	if len(payload) != AccountIDLength {
		return nil, walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "account id", AccountIDLength, len(payload))
	}
	return payload, nil
}
