package tron

import (
	"bytes"
	"math/big"
	"strings"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/chain/evm"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// NodeTransaction is the unsigned transaction returned by a node's
// createtransaction or triggersmartcontract endpoint.
type NodeTransaction struct {
	TxID       string `json:"txID"`
	RawDataHex string `json:"raw_data_hex"`
}

// TokenTransfer makes the request a TRC-20 transfer on Contract.
type TokenTransfer struct {
	Contract string
}

// TxParams describe the transfer the caller asked for together with the
// node-built transaction that claims to implement it.
type TxParams struct {
	To     string
	Amount int64 // sun, or token base units with Token
	Token  *TokenTransfer
	Node   NodeTransaction

	// Now, when set, rejects transactions whose expiration has passed.
	Now time.Time

	// Balance, when set, must cover the amount.
	Balance *int64
}

func mismatch(field string) error {
	return walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{
		"reason": "node transaction does not match request",
		"field":  field,
	})
}

// Verify checks that raw contains exactly one contract moving amount from
// owner to the requested destination. owner and to are 21-byte addresses.
func Verify(raw *RawData, owner, to []byte, amount int64, token []byte) error {
	if len(raw.Contracts) != 1 {
		return mismatch("contract count")
	}
	c := raw.Contracts[0]

	if token == nil {
		if c.Type != ContractTransfer || c.TypeURL != transferTypeURL {
			return mismatch("contract type")
		}
		t, err := ParseTransfer(c.Value)
		if err != nil {
			return err
		}
		switch {
		case !bytes.Equal(t.Owner, owner):
			return mismatch("owner_address")
		case !bytes.Equal(t.To, to):
			return mismatch("to_address")
		case t.Amount != amount:
			return mismatch("amount")
		}
		return nil
	}

	if c.Type != ContractTriggerSmart || c.TypeURL != triggerSmartTypeURL {
		return mismatch("contract type")
	}
	t, err := ParseTriggerSmartContract(c.Value)
	if err != nil {
		return err
	}
	recipient, err := evm.ChecksumAddress(to[1:])
	if err != nil {
		return err
	}
	data, err := evm.ERC20TransferData(recipient, big.NewInt(amount))
	if err != nil {
		return err
	}
	switch {
	case !bytes.Equal(t.Owner, owner):
		return mismatch("owner_address")
	case !bytes.Equal(t.Contract, token):
		return mismatch("contract_address")
	case t.CallValue != 0:
		return mismatch("call_value")
	case !bytes.Equal(t.Data, data):
		return mismatch("data")
	}
	return nil
}

// Sign verifies the node-built transaction against the request and signs
// SHA256(raw_data) with a 32-byte secp256k1 key. The signature is
// r || s || recovery id and tx_hash is the hex txID.
func Sign(priv []byte, network chain.Network, p TxParams) (*chain.SignedTransaction, error) {
	if len(priv) != rusbycrypto.PrivateKeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "private key", rusbycrypto.PrivateKeySize, len(priv))
	}
	key := secp256k1.PrivKeyFromBytes(priv)
	pub := key.PubKey().SerializeUncompressed()
	key.Zero()

	owner, err := AddressBytes(pub, network)
	if err != nil {
		return nil, err
	}
	to, err := DecodeAddress(p.To, network)
	if err != nil {
		return nil, err
	}
	var token []byte
	if p.Token != nil {
		if token, err = DecodeAddress(p.Token.Contract, network); err != nil {
			return nil, err
		}
	}
	if p.Amount <= 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "amount must be positive"})
	}
	if p.Balance != nil && p.Amount > *p.Balance {
		return nil, walleterr.InsufficientFundsBig(big.NewInt(p.Amount), big.NewInt(*p.Balance))
	}

	rawBytes, err := encoding.HexDecode(p.Node.RawDataHex)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}
	if len(rawBytes) == 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "empty raw_data"})
	}
	raw, err := ParseRawData(rawBytes)
	if err != nil {
		return nil, err
	}
	if err := Verify(raw, owner, to, p.Amount, token); err != nil {
		return nil, err
	}
	if !p.Now.IsZero() && raw.Expiration <= p.Now.UnixMilli() {
		return nil, mismatch("expiration")
	}

	hash := rusbycrypto.SHA256(rawBytes)
	txID := encoding.HexEncode(hash)
	if p.Node.TxID != "" && !strings.EqualFold(p.Node.TxID, txID) {
		return nil, mismatch("txID")
	}

	sig, err := rusbycrypto.SignRecoverable(priv, hash)
	if err != nil {
		return nil, err
	}
	return &chain.SignedTransaction{
		ChainID:  chain.Tron,
		RawBytes: EncodeTransaction(rawBytes, sig),
		TxHash:   txID,
	}, nil
}
