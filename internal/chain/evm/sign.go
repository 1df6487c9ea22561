package evm

import (
	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
)

// SignTransaction builds, signs and serializes an EIP-1559 transfer on the
// given EVM chain. tx_hash is 0x-hex Keccak256 of the raw bytes.
func SignTransaction(id chain.ID, priv []byte, p TxParams) (*chain.SignedTransaction, error) {
	profile, err := id.Profile()
	if err != nil {
		return nil, err
	}

	tx, err := NewDynamicFeeTx(profile.EVMChainID, p)
	if err != nil {
		return nil, err
	}
	if err := tx.Sign(priv); err != nil {
		return nil, err
	}
	raw, err := tx.RawBytes()
	if err != nil {
		return nil, err
	}

	return &chain.SignedTransaction{
		ChainID:  id,
		RawBytes: raw,
		TxHash:   encoding.HexEncode0x(rusbycrypto.Keccak256(raw)),
	}, nil
}
