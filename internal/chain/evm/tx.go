package evm

import (
	"math/big"

	"github.com/rusbywallet/rusby/internal/chain/evm/rlp"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// DynamicFeeTxType is the EIP-2718 type byte of an EIP-1559 transaction.
const DynamicFeeTxType = 0x02

// TxParams are the caller-supplied fields of an EIP-1559 transfer. Nonce and
// fee quotes come from an RPC collaborator.
type TxParams struct {
	Nonce                uint64
	To                   string
	Value                *big.Int
	GasLimit             uint64
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	Data                 []byte

	// Balance, when set, is checked against value + gasLimit*maxFee
	// before signing.
	Balance *big.Int
}

// DynamicFeeTx is an EIP-1559 transaction with an empty access list.
type DynamicFeeTx struct {
	ChainID              uint64
	Nonce                uint64
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
	GasLimit             uint64
	To                   []byte
	Value                *big.Int
	Data                 []byte

	V    uint64
	R, S *big.Int
}

func nonNil(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// NewDynamicFeeTx validates params and builds the unsigned transaction.
func NewDynamicFeeTx(chainID uint64, p TxParams) (*DynamicFeeTx, error) {
	to, err := ParseAddress(p.To)
	if err != nil {
		return nil, err
	}
	if p.GasLimit == 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "gas limit is zero"})
	}
	maxFee, tip := nonNil(p.MaxFeePerGas), nonNil(p.MaxPriorityFeePerGas)
	value := nonNil(p.Value)
	if maxFee.Sign() < 0 || tip.Sign() < 0 || value.Sign() < 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "negative amount"})
	}
	if tip.Cmp(maxFee) > 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{
			"reason": "max priority fee exceeds max fee",
		})
	}

	tx := &DynamicFeeTx{
		ChainID:              chainID,
		Nonce:                p.Nonce,
		MaxPriorityFeePerGas: tip,
		MaxFeePerGas:         maxFee,
		GasLimit:             p.GasLimit,
		To:                   to,
		Value:                value,
		Data:                 p.Data,
	}

	if p.Balance != nil {
		required := tx.MaxCost()
		if required.Cmp(p.Balance) > 0 {
			return nil, walleterr.InsufficientFundsBig(required, p.Balance)
		}
	}
	return tx, nil
}

// MaxCost is value + gasLimit*maxFeePerGas.
func (tx *DynamicFeeTx) MaxCost() *big.Int {
	cost := new(big.Int).SetUint64(tx.GasLimit)
	cost.Mul(cost, tx.MaxFeePerGas)
	return cost.Add(cost, tx.Value)
}

func (tx *DynamicFeeTx) fields() rlp.List {
	return rlp.List{
		tx.ChainID,
		tx.Nonce,
		tx.MaxPriorityFeePerGas,
		tx.MaxFeePerGas,
		tx.GasLimit,
		tx.To,
		tx.Value,
		tx.Data,
		rlp.List{}, // access list
	}
}

func typed(list rlp.List) ([]byte, error) {
	enc, err := rlp.Encode(list)
	if err != nil {
		return nil, err
	}
	return append([]byte{DynamicFeeTxType}, enc...), nil
}

// SigningPayload is 0x02 || RLP(unsigned fields).
func (tx *DynamicFeeTx) SigningPayload() ([]byte, error) {
	return typed(tx.fields())
}

// SigningHash is Keccak256 of the signing payload.
func (tx *DynamicFeeTx) SigningHash() ([]byte, error) {
	payload, err := tx.SigningPayload()
	if err != nil {
		return nil, err
	}
	return rusbycrypto.Keccak256(payload), nil
}

// Sign signs with a 32-byte secp256k1 key and stores v (0 or 1), r and s.
func (tx *DynamicFeeTx) Sign(priv []byte) error {
	hash, err := tx.SigningHash()
	if err != nil {
		return err
	}
	sig, err := rusbycrypto.SignRecoverable(priv, hash)
	if err != nil {
		return err
	}
	tx.R = new(big.Int).SetBytes(sig[:32])
	tx.S = new(big.Int).SetBytes(sig[32:64])
	tx.V = uint64(sig[64])
	return nil
}

// RawBytes is 0x02 || RLP(fields || v, r, s).
func (tx *DynamicFeeTx) RawBytes() ([]byte, error) {
	if tx.R == nil || tx.S == nil {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "transaction is not signed"})
	}
	return typed(append(tx.fields(), tx.V, tx.R, tx.S))
}
