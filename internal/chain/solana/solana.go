// Package solana derives Solana addresses and signs SOL and SPL token
// transfers.
package solana

import (
	"crypto/ed25519"

	sol "github.com/gagliardetto/solana-go"

	"github.com/rusbywallet/rusby/internal/encoding"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// DeriveAddress returns the Base58 form of an Ed25519 public key.
func DeriveAddress(pub []byte) (string, error) {
	if len(pub) != ed25519.PublicKeySize {
		return "", walleterr.LengthMismatch(walleterr.ErrCrypto, "public key", ed25519.PublicKeySize, len(pub))
	}
	return sol.PublicKeyFromBytes(pub).String(), nil
}

// DecodeAddress returns the 32-byte public key of a Base58 address.
func DecodeAddress(addr string) ([]byte, error) {
	raw, err := encoding.Base58Decode(addr)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidAddress, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrInvalidAddress, "public key", ed25519.PublicKeySize, len(raw))
	}
	return raw, nil
}

func parsePublicKey(addr string) (sol.PublicKey, error) {
	raw, err := DecodeAddress(addr)
	if err != nil {
		return sol.PublicKey{}, err
	}
	return sol.PublicKeyFromBytes(raw), nil
}
