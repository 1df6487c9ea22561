package tron

import (
	"google.golang.org/protobuf/encoding/protowire"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Contract types this package verifies.
const (
	ContractTransfer     = 1
	ContractTriggerSmart = 31
)

const (
	transferTypeURL     = "type.googleapis.com/protocol.TransferContract"
	triggerSmartTypeURL = "type.googleapis.com/protocol.TriggerSmartContract"
)

// Transaction.raw field numbers.
const (
	rawFieldRefBlockBytes = 1
	rawFieldRefBlockHash  = 4
	rawFieldExpiration    = 8
	rawFieldContract      = 11
	rawFieldTimestamp     = 14
	rawFieldFeeLimit      = 18
)

// RawData is the subset of Transaction.raw_data needed to verify a transfer.
type RawData struct {
	RefBlockBytes []byte
	RefBlockHash  []byte
	Expiration    int64
	Timestamp     int64
	FeeLimit      int64
	Contracts     []Contract
}

// Contract is one Transaction.Contract with its Any parameter.
type Contract struct {
	Type    uint64
	TypeURL string
	Value   []byte
}

// Transfer is a decoded TransferContract.
type Transfer struct {
	Owner  []byte
	To     []byte
	Amount int64
}

// TriggerSmartContract is a decoded TriggerSmartContract.
type TriggerSmartContract struct {
	Owner     []byte
	Contract  []byte
	CallValue int64
	Data      []byte
}

func malformed(what string, err error) error {
	return walleterr.WithCause(walleterr.WithDetails(walleterr.ErrInvalidTransaction, map[string]string{
		"reason": "malformed " + what,
	}), err)
}

// walk visits every field of a protobuf message. Only varint and bytes
// fields are surfaced; others are skipped.
func walk(b []byte, what string, fn func(num protowire.Number, varint uint64, bytes []byte)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return malformed(what, protowire.ParseError(n))
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return malformed(what, protowire.ParseError(m))
			}
			fn(num, v, nil)
			b = b[m:]
		case protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return malformed(what, protowire.ParseError(m))
			}
			fn(num, 0, v)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return malformed(what, protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return nil
}

// ParseRawData decodes serialized raw_data.
func ParseRawData(b []byte) (*RawData, error) {
	raw := &RawData{}
	var contracts [][]byte
	err := walk(b, "raw_data", func(num protowire.Number, v uint64, bytes []byte) {
		switch num {
		case rawFieldRefBlockBytes:
			raw.RefBlockBytes = bytes
		case rawFieldRefBlockHash:
			raw.RefBlockHash = bytes
		case rawFieldExpiration:
			raw.Expiration = int64(v)
		case rawFieldContract:
			contracts = append(contracts, bytes)
		case rawFieldTimestamp:
			raw.Timestamp = int64(v)
		case rawFieldFeeLimit:
			raw.FeeLimit = int64(v)
		}
	})
	if err != nil {
		return nil, err
	}

	for _, c := range contracts {
		contract, err := parseContract(c)
		if err != nil {
			return nil, err
		}
		raw.Contracts = append(raw.Contracts, contract)
	}
	return raw, nil
}

func parseContract(b []byte) (Contract, error) {
	var c Contract
	var param []byte
	err := walk(b, "contract", func(num protowire.Number, v uint64, bytes []byte) {
		switch num {
		case 1:
			c.Type = v
		case 2:
			param = bytes
		}
	})
	if err != nil {
		return c, err
	}
	err = walk(param, "contract parameter", func(num protowire.Number, _ uint64, bytes []byte) {
		switch num {
		case 1:
			c.TypeURL = string(bytes)
		case 2:
			c.Value = bytes
		}
	})
	return c, err
}

// ParseTransfer decodes a TransferContract parameter value.
func ParseTransfer(b []byte) (*Transfer, error) {
	t := &Transfer{}
	err := walk(b, "transfer contract", func(num protowire.Number, v uint64, bytes []byte) {
		switch num {
		case 1:
			t.Owner = bytes
		case 2:
			t.To = bytes
		case 3:
			t.Amount = int64(v)
		}
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ParseTriggerSmartContract decodes a TriggerSmartContract parameter value.
func ParseTriggerSmartContract(b []byte) (*TriggerSmartContract, error) {
	t := &TriggerSmartContract{}
	err := walk(b, "trigger smart contract", func(num protowire.Number, v uint64, bytes []byte) {
		switch num {
		case 1:
			t.Owner = bytes
		case 2:
			t.Contract = bytes
		case 3:
			t.CallValue = int64(v)
		case 4:
			t.Data = bytes
		}
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeTransaction serializes Transaction{raw_data, signature}.
func EncodeTransaction(rawData, signature []byte) []byte {
	var out []byte
	out = protowire.AppendTag(out, 1, protowire.BytesType)
	out = protowire.AppendBytes(out, rawData)
	out = protowire.AppendTag(out, 2, protowire.BytesType)
	return protowire.AppendBytes(out, signature)
}
