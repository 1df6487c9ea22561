package cosmos

import (
	"encoding/json"
	"strconv"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	msgSendType = "cosmos-sdk/MsgSend"
	pubKeyType  = "tendermint/PubKeySecp256k1"
)

// TxParams describe a bank send. AccountNumber and Sequence come from an
// RPC collaborator.
type TxParams struct {
	AccountNumber uint64
	Sequence      uint64
	To            string
	Amount        uint64
	Denom         string // defaults to the chain's staking denom
	FeeAmount     uint64 // defaults to the chain's default fee
	Gas           uint64 // defaults to the chain's default gas
	Memo          string
	ChainID       string // overrides the network's chain id
}

// Coin is an amount of one denom. Amounts are decimal strings in Amino JSON.
type Coin struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

// Fee is the Amino StdFee.
type Fee struct {
	Amount []Coin `json:"amount"`
	Gas    string `json:"gas"`
}

// MsgSendValue is the body of a bank MsgSend.
type MsgSendValue struct {
	Amount      []Coin `json:"amount"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
}

// Msg is an Amino-typed message.
type Msg struct {
	Type  string       `json:"type"`
	Value MsgSendValue `json:"value"`
}

// SignDoc is the Amino StdSignDoc. Field order is alphabetical, which is the
// canonical sorted-key order the chain recomputes.
type SignDoc struct {
	AccountNumber string `json:"account_number"`
	ChainID       string `json:"chain_id"`
	Fee           Fee    `json:"fee"`
	Memo          string `json:"memo"`
	Msgs          []Msg  `json:"msgs"`
	Sequence      string `json:"sequence"`
}

// PubKey is an Amino-typed public key.
type PubKey struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Signature pairs a public key with a base64 r||s signature.
type Signature struct {
	PubKey    PubKey `json:"pub_key"`
	Signature string `json:"signature"`
}

// StdTx is the signed transaction.
type StdTx struct {
	Msg        []Msg       `json:"msg"`
	Fee        Fee         `json:"fee"`
	Signatures []Signature `json:"signatures"`
	Memo       string      `json:"memo"`
}

// BroadcastEnvelope is the body POSTed to the REST broadcast endpoint.
type BroadcastEnvelope struct {
	Tx   StdTx  `json:"tx"`
	Mode string `json:"mode"`
}

// BuildSignDoc validates params and returns the sign doc for a send from
// fromAddress.
func (p *Params) BuildSignDoc(fromAddress string, params TxParams) (*SignDoc, error) {
	if _, err := p.DecodeAddress(params.To); err != nil {
		return nil, err
	}
	if params.Amount == 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{"reason": "amount is zero"})
	}

	denom := params.Denom
	if denom == "" {
		denom = p.Denom
	}
	fee, gas := params.FeeAmount, params.Gas
	if fee == 0 {
		fee = p.DefaultFee
	}
	if gas == 0 {
		gas = p.DefaultGas
	}
	chainID := params.ChainID
	if chainID == "" {
		chainID = p.ChainID
	}

	return &SignDoc{
		AccountNumber: strconv.FormatUint(params.AccountNumber, 10),
		ChainID:       chainID,
		Fee: Fee{
			Amount: []Coin{{Amount: strconv.FormatUint(fee, 10), Denom: p.Denom}},
			Gas:    strconv.FormatUint(gas, 10),
		},
		Memo: params.Memo,
		Msgs: []Msg{{
			Type: msgSendType,
			Value: MsgSendValue{
				Amount:      []Coin{{Amount: strconv.FormatUint(params.Amount, 10), Denom: denom}},
				FromAddress: fromAddress,
				ToAddress:   params.To,
			},
		}},
		Sequence: strconv.FormatUint(params.Sequence, 10),
	}, nil
}

// Bytes is the canonical JSON that gets hashed and signed.
func (d *SignDoc) Bytes() ([]byte, error) {
	out, err := json.Marshal(d)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}
	return out, nil
}

// Sign builds the sign doc, signs SHA256(doc) with a 32-byte secp256k1 key
// and returns the sync-mode broadcast envelope. tx_hash is 0x-hex SHA256 of
// the envelope bytes.
func (p *Params) Sign(priv []byte, params TxParams) (*chain.SignedTransaction, error) {
	if len(priv) != rusbycrypto.PrivateKeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "private key", rusbycrypto.PrivateKeySize, len(priv))
	}
	key := secp256k1.PrivKeyFromBytes(priv)
	pub := key.PubKey().SerializeCompressed()
	key.Zero()

	from, err := p.DeriveAddress(pub)
	if err != nil {
		return nil, err
	}
	doc, err := p.BuildSignDoc(from, params)
	if err != nil {
		return nil, err
	}
	docBytes, err := doc.Bytes()
	if err != nil {
		return nil, err
	}

	sig, err := rusbycrypto.SignRecoverable(priv, rusbycrypto.SHA256(docBytes))
	if err != nil {
		return nil, err
	}

	envelope := BroadcastEnvelope{
		Tx: StdTx{
			Msg: doc.Msgs,
			Fee: doc.Fee,
			Signatures: []Signature{{
				PubKey:    PubKey{Type: pubKeyType, Value: encoding.Base64Encode(pub)},
				Signature: encoding.Base64Encode(sig[:64]),
			}},
			Memo: doc.Memo,
		},
		Mode: "sync",
	}
	raw, err := json.Marshal(envelope)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrInvalidTransaction, err)
	}

	return &chain.SignedTransaction{
		ChainID:  p.Chain,
		RawBytes: raw,
		TxHash:   encoding.HexEncode0x(rusbycrypto.SHA256(raw)),
	}, nil
}
