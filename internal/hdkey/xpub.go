package hdkey

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// ExtendedPublicKey derives path from seed and returns the neutered key as
// a BIP32 xpub, or tpub when testnet is set. Only secp256k1 keys have one.
func ExtendedPublicKey(seed []byte, path Path, testnet bool) (string, error) {
	if len(seed) != SeedSize {
		return "", walleterr.LengthMismatch(walleterr.ErrInvalidInput, "seed", SeedSize, len(seed))
	}
	return extendedPublicKey(seed, path, testnet)
}

func extendedPublicKey(seed []byte, path Path, testnet bool) (string, error) {
	params := &chaincfg.MainNetParams
	if testnet {
		params = &chaincfg.TestNet3Params
	}

	key, err := walkBIP32(seed, path, params)
	if err != nil {
		return "", err
	}
	defer key.Zero()

	pub, err := key.Neuter()
	if err != nil {
		return "", walleterr.WithCause(walleterr.ErrCrypto, err)
	}
	return pub.String(), nil
}

// ChildPublicKey walks normal steps below an extended public key and
// returns the compressed public key reached.
func ChildPublicKey(xpub string, steps Path) ([]byte, error) {
	key, err := hdkeychain.NewKeyFromString(xpub)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrFormat, fmt.Errorf("extended key: %w", err))
	}
	if key.IsPrivate() {
		key.Zero()
		return nil, walleterr.WithSuggestion(
			walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": "extended private key given"}),
			"pass the xpub, never the xprv")
	}

	for _, idx := range steps {
		if idx >= HardenedOffset {
			return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
				"reason": "hardened step below an extended public key",
			})
		}
		if key, err = key.Derive(idx); err != nil {
			return nil, walleterr.WithCause(walleterr.ErrCrypto, err)
		}
	}

	pub, err := key.ECPubKey()
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrCrypto, err)
	}
	return pub.SerializeCompressed(), nil
}
