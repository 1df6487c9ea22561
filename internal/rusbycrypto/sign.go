package rusbycrypto

import (
	"crypto/ed25519"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	// PrivateKeySize is the length of secp256k1 scalars and Ed25519 seeds.
	PrivateKeySize = 32

	// HashSize is the digest length every secp256k1 signer expects.
	HashSize = 32

	// RecoverableSigSize is r||s||v.
	RecoverableSigSize = 65
)

func checkSecpInputs(priv, hash []byte) error {
	if len(priv) != PrivateKeySize {
		return walleterr.LengthMismatch(walleterr.ErrCrypto, "private key", PrivateKeySize, len(priv))
	}
	if len(hash) != HashSize {
		return walleterr.LengthMismatch(walleterr.ErrCrypto, "hash", HashSize, len(hash))
	}
	var scalar secp256k1.ModNScalar
	overflow := scalar.SetByteSlice(priv)
	defer scalar.Zero()
	if overflow || scalar.IsZero() {
		return walleterr.WithDetails(walleterr.ErrCrypto, map[string]string{"reason": "private key out of range"})
	}
	return nil
}

// SignRecoverable signs a 32-byte hash with RFC 6979 nonces and returns
// r||s||v with a low-S s and v the recovery id (0 or 1).
func SignRecoverable(priv, hash []byte) ([]byte, error) {
	if err := checkSecpInputs(priv, hash); err != nil {
		return nil, err
	}

	key := secp256k1.PrivKeyFromBytes(priv)
	defer key.Zero()

	// SignCompact returns v||r||s with v = 27 + recid for uncompressed keys.
	compact := ecdsa.SignCompact(key, hash, false)
	if len(compact) != RecoverableSigSize {
		return nil, walleterr.WithDetails(walleterr.ErrCrypto, map[string]string{"reason": "unexpected signature length"})
	}

	sig := make([]byte, RecoverableSigSize)
	copy(sig[:64], compact[1:])
	sig[64] = compact[0] - 27
	return sig, nil
}

// SignDER signs a 32-byte hash and returns a low-S DER-encoded signature.
func SignDER(priv, hash []byte) ([]byte, error) {
	if err := checkSecpInputs(priv, hash); err != nil {
		return nil, err
	}

	key, _ := btcec.PrivKeyFromBytes(priv)
	defer key.Zero()

	return btcecdsa.Sign(key, hash).Serialize(), nil
}

// SignEd25519 signs msg with the Ed25519 key whose 32-byte seed is priv.
func SignEd25519(priv, msg []byte) ([]byte, error) {
	if len(priv) != ed25519.SeedSize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "private key", ed25519.SeedSize, len(priv))
	}
	key := ed25519.NewKeyFromSeed(priv)
	defer Zero(key)
	return ed25519.Sign(key, msg), nil
}

// Ed25519PublicKey returns the 32-byte public key of an Ed25519 seed.
func Ed25519PublicKey(priv []byte) ([]byte, error) {
	if len(priv) != ed25519.SeedSize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "private key", ed25519.SeedSize, len(priv))
	}
	key := ed25519.NewKeyFromSeed(priv)
	defer Zero(key)
	pub := make([]byte, ed25519.PublicKeySize)
	copy(pub, key[ed25519.SeedSize:])
	return pub, nil
}
