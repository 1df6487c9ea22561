package signer

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/big"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/chain/cosmos"
	"github.com/rusbywallet/rusby/internal/chain/evm"
	"github.com/rusbywallet/rusby/internal/chain/ripple"
	"github.com/rusbywallet/rusby/internal/chain/solana"
	"github.com/rusbywallet/rusby/internal/chain/stellar"
	"github.com/rusbywallet/rusby/internal/chain/ton"
	"github.com/rusbywallet/rusby/internal/chain/tron"
	"github.com/rusbywallet/rusby/internal/chain/utxo"
	"github.com/rusbywallet/rusby/internal/encoding"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Non-negative base-10 integer of any width.
	if err := v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		n, ok := new(big.Int).SetString(fl.Field().String(), 10)
		return ok && n.Sign() >= 0
	}); err != nil {
		panic("register amount validation: " + err.Error())
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type evmToken struct {
	Contract string `json:"contract" validate:"required"`
}

type evmRequest struct {
	Nonce                uint64    `json:"nonce"`
	To                   string    `json:"to" validate:"required"`
	Value                string    `json:"value" validate:"omitempty,amount"`
	GasLimit             uint64    `json:"gas_limit" validate:"required"`
	MaxFeePerGas         string    `json:"max_fee_per_gas" validate:"required,amount"`
	MaxPriorityFeePerGas string    `json:"max_priority_fee_per_gas" validate:"required,amount"`
	Data                 string    `json:"data,omitempty" validate:"omitempty,hexadecimal,excluded_with=Token"`
	Token                *evmToken `json:"token,omitempty"`
	Balance              string    `json:"balance,omitempty" validate:"omitempty,amount"`
}

type utxoInput struct {
	TxID         string `json:"txid" validate:"required,len=64,hexadecimal"`
	Vout         uint32 `json:"vout"`
	Amount       uint64 `json:"amount" validate:"required"`
	ScriptPubKey string `json:"script_pubkey,omitempty" validate:"omitempty,hexadecimal"`
}

type utxoRequest struct {
	UTXOs         []utxoInput `json:"utxos" validate:"required,min=1,dive"`
	To            string      `json:"to" validate:"required"`
	Amount        uint64      `json:"amount" validate:"required"`
	Fee           uint64      `json:"fee"`
	FeeRate       uint64      `json:"fee_rate" validate:"required_without=Fee"`
	ChangeAddress string      `json:"change_address,omitempty"`
}

type cosmosRequest struct {
	AccountNumber uint64 `json:"account_number"`
	Sequence      uint64 `json:"sequence"`
	To            string `json:"to" validate:"required"`
	Amount        uint64 `json:"amount" validate:"required"`
	Denom         string `json:"denom,omitempty" validate:"omitempty,max=128"`
	FeeAmount     uint64 `json:"fee_amount,omitempty"`
	Gas           uint64 `json:"gas,omitempty"`
	Memo          string `json:"memo,omitempty" validate:"max=256"`
	ChainID       string `json:"chain_id,omitempty"`
}

type rippleRequest struct {
	Sequence           uint32  `json:"sequence" validate:"required"`
	To                 string  `json:"to" validate:"required"`
	Amount             uint64  `json:"amount" validate:"required"`
	Fee                uint64  `json:"fee,omitempty"`
	DestinationTag     *uint32 `json:"destination_tag,omitempty"`
	LastLedgerSequence uint32  `json:"last_ledger_sequence,omitempty"`
	Balance            *uint64 `json:"balance,omitempty"`
}

type stellarRequest struct {
	Sequence      int64   `json:"sequence" validate:"gte=0"`
	To            string  `json:"to" validate:"required"`
	Amount        int64   `json:"amount" validate:"gt=0"`
	Fee           uint32  `json:"fee,omitempty"`
	CreateAccount bool    `json:"create_account,omitempty"`
	MemoText      string  `json:"memo_text,omitempty" validate:"excluded_with=MemoID"`
	MemoID        *uint64 `json:"memo_id,omitempty"`
	MinTime       uint64  `json:"min_time,omitempty"`
	MaxTime       uint64  `json:"max_time,omitempty" validate:"omitempty,gtefield=MinTime"`
	Balance       *int64  `json:"balance,omitempty"`
}

type solanaToken struct {
	Mint              string `json:"mint" validate:"required"`
	Decimals          uint8  `json:"decimals"`
	CreateDestination bool   `json:"create_destination,omitempty"`
}

type solanaRequest struct {
	To               string       `json:"to" validate:"required"`
	Amount           uint64       `json:"amount" validate:"required"`
	RecentBlockhash  string       `json:"recent_blockhash" validate:"required"`
	Token            *solanaToken `json:"token,omitempty"`
	ComputeUnitPrice uint64       `json:"compute_unit_price,omitempty"`
	ComputeUnitLimit uint32       `json:"compute_unit_limit,omitempty"`
	Balance          *uint64      `json:"balance,omitempty"`
}

type tonRequest struct {
	Seqno      uint32  `json:"seqno"`
	ValidUntil uint32  `json:"valid_until" validate:"required"`
	To         string  `json:"to" validate:"required"`
	Amount     uint64  `json:"amount" validate:"required"`
	Comment    string  `json:"comment,omitempty"`
	Bounce     *bool   `json:"bounce,omitempty"`
	Mode       uint8   `json:"mode,omitempty"`
	WalletID   uint32  `json:"wallet_id,omitempty"`
	Balance    *uint64 `json:"balance,omitempty"`
}

type tronToken struct {
	Contract string `json:"contract" validate:"required"`
}

type tronNode struct {
	TxID       string `json:"txID" validate:"required,len=64,hexadecimal"`
	RawDataHex string `json:"raw_data_hex" validate:"required,hexadecimal"`
}

type tronRequest struct {
	To      string     `json:"to" validate:"required"`
	Amount  int64      `json:"amount" validate:"gt=0"`
	Token   *tronToken `json:"token,omitempty"`
	Node    tronNode   `json:"node"`
	Balance *int64     `json:"balance,omitempty"`
}

// DecodeRequest parses a JSON transfer request for the chain named by
// chainName. Unknown fields are rejected.
func DecodeRequest(chainName string, data []byte) (Request, error) {
	id, err := chain.Parse(chainName)
	if err != nil {
		return Request{}, err
	}
	req := Request{Chain: id}

	switch id.Family() {
	case chain.FamilyEVM:
		var r evmRequest
		if err := decodeStrict(data, &r); err != nil {
			return Request{}, err
		}
		req.EVM, err = r.params()
	case chain.FamilyUTXO:
		var r utxoRequest
		if err := decodeStrict(data, &r); err != nil {
			return Request{}, err
		}
		req.UTXO = r.params()
	case chain.FamilyCosmos:
		var r cosmosRequest
		if err := decodeStrict(data, &r); err != nil {
			return Request{}, err
		}
		req.Cosmos = &cosmos.TxParams{
			AccountNumber: r.AccountNumber,
			Sequence:      r.Sequence,
			To:            r.To,
			Amount:        r.Amount,
			Denom:         r.Denom,
			FeeAmount:     r.FeeAmount,
			Gas:           r.Gas,
			Memo:          r.Memo,
			ChainID:       r.ChainID,
		}
	case chain.FamilyRipple:
		var r rippleRequest
		if err := decodeStrict(data, &r); err != nil {
			return Request{}, err
		}
		req.Ripple = &ripple.TxParams{
			Sequence:           r.Sequence,
			To:                 r.To,
			Amount:             r.Amount,
			Fee:                r.Fee,
			DestinationTag:     r.DestinationTag,
			LastLedgerSequence: r.LastLedgerSequence,
			Balance:            r.Balance,
		}
	case chain.FamilyStellar:
		var r stellarRequest
		if err := decodeStrict(data, &r); err != nil {
			return Request{}, err
		}
		req.Stellar = &stellar.TxParams{
			Sequence:      r.Sequence,
			To:            r.To,
			Amount:        r.Amount,
			Fee:           r.Fee,
			CreateAccount: r.CreateAccount,
			MemoText:      r.MemoText,
			MemoID:        r.MemoID,
			MinTime:       r.MinTime,
			MaxTime:       r.MaxTime,
			Balance:       r.Balance,
		}
	case chain.FamilySolana:
		var r solanaRequest
		if err := decodeStrict(data, &r); err != nil {
			return Request{}, err
		}
		req.Solana = &solana.TxParams{
			To:               r.To,
			Amount:           r.Amount,
			RecentBlockhash:  r.RecentBlockhash,
			ComputeUnitPrice: r.ComputeUnitPrice,
			ComputeUnitLimit: r.ComputeUnitLimit,
			Balance:          r.Balance,
		}
		if r.Token != nil {
			req.Solana.Token = &solana.TokenTransfer{
				Mint:              r.Token.Mint,
				Decimals:          r.Token.Decimals,
				CreateDestination: r.Token.CreateDestination,
			}
		}
	case chain.FamilyTON:
		var r tonRequest
		if err := decodeStrict(data, &r); err != nil {
			return Request{}, err
		}
		req.TON = &ton.TxParams{
			Seqno:      r.Seqno,
			ValidUntil: r.ValidUntil,
			To:         r.To,
			Amount:     r.Amount,
			Comment:    r.Comment,
			Bounce:     r.Bounce,
			Mode:       r.Mode,
			WalletID:   r.WalletID,
			Balance:    r.Balance,
		}
	case chain.FamilyTron:
		var r tronRequest
		if err := decodeStrict(data, &r); err != nil {
			return Request{}, err
		}
		req.Tron = &tron.TxParams{
			To:      r.To,
			Amount:  r.Amount,
			Node:    tron.NodeTransaction{TxID: r.Node.TxID, RawDataHex: r.Node.RawDataHex},
			Balance: r.Balance,
		}
		if r.Token != nil {
			req.Tron.Token = &tron.TokenTransfer{Contract: r.Token.Contract}
		}
	default:
		return Request{}, walleterr.WithDetails(walleterr.ErrUnsupportedChain, map[string]string{"chain": chainName})
	}
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return walleterr.WithCause(walleterr.ErrFormat, err)
	}
	if dec.More() {
		return walleterr.WithDetails(walleterr.ErrFormat, map[string]string{"reason": "trailing data after request"})
	}
	return validationError(validate.Struct(v))
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return walleterr.WithCause(walleterr.ErrInvalidInput, err)
	}
	first := verrs[0]
	field := first.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	return walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{
		"field": field,
		"rule":  first.Tag(),
	})
}

func (r evmRequest) params() (*evm.TxParams, error) {
	p := &evm.TxParams{
		Nonce:                r.Nonce,
		To:                   r.To,
		Value:                bigOrZero(r.Value),
		GasLimit:             r.GasLimit,
		MaxFeePerGas:         bigOrZero(r.MaxFeePerGas),
		MaxPriorityFeePerGas: bigOrZero(r.MaxPriorityFeePerGas),
	}
	if r.Balance != "" {
		p.Balance = bigOrZero(r.Balance)
	}

	if r.Token != nil {
		data, err := evm.ERC20TransferData(r.To, p.Value)
		if err != nil {
			return nil, err
		}
		p.To, p.Value, p.Data = r.Token.Contract, new(big.Int), data
		return p, nil
	}
	if r.Data != "" {
		data, err := encoding.HexDecode(r.Data)
		if err != nil {
			return nil, err
		}
		p.Data = data
	}
	return p, nil
}

func (r utxoRequest) params() *utxo.TxParams {
	p := &utxo.TxParams{
		To:            r.To,
		Amount:        r.Amount,
		Fee:           r.Fee,
		FeeRate:       r.FeeRate,
		ChangeAddress: r.ChangeAddress,
		UTXOs:         make([]utxo.UTXO, 0, len(r.UTXOs)),
	}
	for _, in := range r.UTXOs {
		p.UTXOs = append(p.UTXOs, utxo.UTXO{
			TxID:         in.TxID,
			Vout:         in.Vout,
			Amount:       in.Amount,
			ScriptPubKey: in.ScriptPubKey,
		})
	}
	return p
}

// bigOrZero parses a string already checked by the amount rule.
func bigOrZero(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return new(big.Int)
	}
	return n
}
