package utxo

import (
	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

func compressedPublicKey(priv []byte) ([]byte, error) {
	if len(priv) != rusbycrypto.PrivateKeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "private key", rusbycrypto.PrivateKeySize, len(priv))
	}
	key := secp256k1.PrivKeyFromBytes(priv)
	defer key.Zero()
	return key.PubKey().SerializeCompressed(), nil
}
