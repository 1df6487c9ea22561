package hdkey

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// SeedSize is the only accepted seed length.
const SeedSize = 64

// Curve selects the derivation scheme and signature algorithm.
type Curve uint8

const (
	// Secp256k1 uses BIP32.
	Secp256k1 Curve = iota + 1
	// Ed25519 uses SLIP-10 with hardened-only derivation.
	Ed25519
)

func (c Curve) String() string {
	switch c {
	case Secp256k1:
		return "secp256k1"
	case Ed25519:
		return "ed25519"
	default:
		return "unknown"
	}
}

// ed25519SeedKey is the SLIP-10 master HMAC key for Ed25519.
const ed25519SeedKey = "ed25519 seed"

// Key is a derived (private key, chain code) pair. Call Zero when done.
type Key struct {
	Curve      Curve
	Path       Path
	PrivateKey []byte
	ChainCode  []byte
}

// Zero wipes the key material.
func (k *Key) Zero() {
	if k == nil {
		return
	}
	rusbycrypto.ZeroAll(k.PrivateKey, k.ChainCode)
}

// PublicKey returns the 33-byte compressed secp256k1 key or the 32-byte
// Ed25519 key.
func (k *Key) PublicKey() []byte {
	switch k.Curve {
	case Secp256k1:
		priv := secp256k1.PrivKeyFromBytes(k.PrivateKey)
		defer priv.Zero()
		return priv.PubKey().SerializeCompressed()
	case Ed25519:
		priv := ed25519.NewKeyFromSeed(k.PrivateKey)
		defer rusbycrypto.Zero(priv)
		pub := make([]byte, ed25519.PublicKeySize)
		copy(pub, priv[ed25519.SeedSize:])
		return pub
	default:
		return nil
	}
}

// UncompressedPublicKey returns the 65-byte 0x04-prefixed secp256k1 key.
func (k *Key) UncompressedPublicKey() ([]byte, error) {
	if k.Curve != Secp256k1 {
		return nil, walleterr.WithDetails(walleterr.ErrCrypto, map[string]string{
			"reason": "uncompressed public key requires secp256k1",
		})
	}
	priv := secp256k1.PrivKeyFromBytes(k.PrivateKey)
	defer priv.Zero()
	return priv.PubKey().SerializeUncompressed(), nil
}

// Derive dispatches on curve.
func Derive(seed []byte, curve Curve, path Path) (*Key, error) {
	switch curve {
	case Secp256k1:
		return DeriveSecp256k1(seed, path)
	case Ed25519:
		return DeriveEd25519(seed, path)
	default:
		return nil, walleterr.WithDetails(walleterr.ErrCrypto, map[string]string{
			"curve": curve.String(),
		})
	}
}

// DeriveSecp256k1 walks path from the BIP32 master key of seed. Hardened
// steps HMAC the parent private key, normal steps HMAC the compressed
// parent public key, and the child key is (parent + IL) mod n.
func DeriveSecp256k1(seed []byte, path Path) (*Key, error) {
	if len(seed) != SeedSize {
		return nil, walleterr.LengthMismatch(walleterr.ErrInvalidInput, "seed", SeedSize, len(seed))
	}
	return deriveSecp256k1(seed, path)
}

func deriveSecp256k1(seed []byte, path Path) (*Key, error) {
	current, err := walkBIP32(seed, path, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	defer current.Zero()

	priv, err := current.ECPrivKey()
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrCrypto, fmt.Errorf("extracting private key: %w", err))
	}
	defer priv.Zero()

	// Serialize and ChainCode both return fresh slices owned by Key.
	return &Key{
		Curve:      Secp256k1,
		Path:       append(Path(nil), path...),
		PrivateKey: priv.Serialize(),
		ChainCode:  current.ChainCode(),
	}, nil
}

// walkBIP32 returns the private extended key at path. Every intermediate
// key is wiped; the caller owns and must Zero the result.
func walkBIP32(seed []byte, path Path, params *chaincfg.Params) (*hdkeychain.ExtendedKey, error) {
	current, err := hdkeychain.NewMaster(seed, params)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrCrypto, fmt.Errorf("creating master key: %w", err))
	}

	for depth, idx := range path {
		child, err := current.Derive(idx)
		current.Zero()
		if err != nil {
			if errors.Is(err, hdkeychain.ErrInvalidChild) {
				return nil, walleterr.WithDetails(walleterr.ErrCrypto, map[string]string{
					"reason": "invalid child key",
					"depth":  fmt.Sprint(depth + 1),
				})
			}
			return nil, walleterr.WithCause(walleterr.ErrCrypto, fmt.Errorf("deriving child %d: %w", depth+1, err))
		}
		current = child
	}
	return current, nil
}

// DeriveEd25519 walks path per SLIP-10. Every index is forced hardened and
// the child key is IL directly.
func DeriveEd25519(seed []byte, path Path) (*Key, error) {
	if len(seed) != SeedSize {
		return nil, walleterr.LengthMismatch(walleterr.ErrInvalidInput, "seed", SeedSize, len(seed))
	}
	return deriveEd25519(seed, path), nil
}

func deriveEd25519(seed []byte, path Path) *Key {
	i := rusbycrypto.HMACSHA512([]byte(ed25519SeedKey), seed)
	key := append([]byte(nil), i[:32]...)
	chainCode := append([]byte(nil), i[32:]...)
	rusbycrypto.Zero(i)

	data := make([]byte, 1+32+4)
	defer rusbycrypto.Zero(data)

	for _, idx := range path.Hardened() {
		data[0] = 0x00
		copy(data[1:33], key)
		binary.BigEndian.PutUint32(data[33:], idx)

		i = rusbycrypto.HMACSHA512(chainCode, data)
		copy(key, i[:32])
		copy(chainCode, i[32:])
		rusbycrypto.Zero(i)
	}

	return &Key{
		Curve:      Ed25519,
		Path:       path.Hardened(),
		PrivateKey: key,
		ChainCode:  chainCode,
	}
}
