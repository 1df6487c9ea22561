package tron_test

import (
	"encoding/hex"
	"math/big"
	"testing"
	"time"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/chain/evm"
	"github.com/rusbywallet/rusby/internal/chain/tron"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	ownerOne        = "TMVQGm1qAQYVdetCeGRRkTWYYrLXuHK2HC"
	ownerOneTestnet = "27abhp5LCcYZjKq8Ry84hpNNHLmp9Q6YVxY"
	zeroAddress     = "T9yD14Nj9j7xAB4dbGeiX9h8unkKHxuWwb"
	usdtContract    = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"
	expiration      = int64(1_700_000_060_000)
)

func keyOne() []byte {
	k := make([]byte, 32)
	k[31] = 1
	return k
}

func mustDecode(t *testing.T, addr string) []byte {
	t.Helper()
	b, err := tron.DecodeAddress(addr, chain.Mainnet)
	require.NoError(t, err)
	return b
}

func bytesField(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func varintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func contract(contractType uint64, typeURL string, value []byte) []byte {
	var param []byte
	param = bytesField(param, 1, []byte(typeURL))
	param = bytesField(param, 2, value)

	var c []byte
	c = varintField(c, 1, contractType)
	return bytesField(c, 2, param)
}

func transferContract(owner, to []byte, amount int64) []byte {
	var v []byte
	v = bytesField(v, 1, owner)
	v = bytesField(v, 2, to)
	v = varintField(v, 3, uint64(amount))
	return contract(tron.ContractTransfer, "type.googleapis.com/protocol.TransferContract", v)
}

func rawData(contracts ...[]byte) []byte {
	var raw []byte
	raw = bytesField(raw, 1, []byte{0x12, 0x34})
	raw = bytesField(raw, 4, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	raw = varintField(raw, 8, uint64(expiration))
	for _, c := range contracts {
		raw = bytesField(raw, 11, c)
	}
	return varintField(raw, 14, uint64(expiration-60_000))
}

func node(raw []byte) tron.NodeTransaction {
	return tron.NodeTransaction{
		TxID:       hex.EncodeToString(rusbycrypto.SHA256(raw)),
		RawDataHex: hex.EncodeToString(raw),
	}
}

func TestAddress(t *testing.T) {
	t.Parallel()
	pub := secp256k1.PrivKeyFromBytes(keyOne()).PubKey().SerializeUncompressed()

	addr, err := tron.DeriveAddress(pub, chain.Mainnet)
	require.NoError(t, err)
	assert.Equal(t, ownerOne, addr)

	addr, err = tron.DeriveAddress(pub, chain.Testnet)
	require.NoError(t, err)
	assert.Equal(t, ownerOneTestnet, addr)

	decoded := mustDecode(t, ownerOne)
	assert.Equal(t, "417e5f4552091a69125d5dfcb7b8c2659029395bdf", hex.EncodeToString(decoded))

	_, err = tron.DecodeAddress(ownerOneTestnet, chain.Mainnet)
	require.ErrorIs(t, err, walleterr.ErrInvalidAddress)
	_, err = tron.DecodeAddress("1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", chain.Mainnet)
	require.ErrorIs(t, err, walleterr.ErrInvalidAddress)
	_, err = tron.DecodeAddress(ownerOne[:len(ownerOne)-1]+"D", chain.Mainnet)
	require.ErrorIs(t, err, walleterr.ErrInvalidAddress)
}

func TestParseRawData(t *testing.T) {
	t.Parallel()
	owner, to := mustDecode(t, ownerOne), mustDecode(t, zeroAddress)

	raw, err := tron.ParseRawData(rawData(transferContract(owner, to, 1500)))
	require.NoError(t, err)
	assert.Equal(t, expiration, raw.Expiration)
	assert.Equal(t, []byte{0x12, 0x34}, raw.RefBlockBytes)
	require.Len(t, raw.Contracts, 1)
	assert.Equal(t, uint64(tron.ContractTransfer), raw.Contracts[0].Type)

	tr, err := tron.ParseTransfer(raw.Contracts[0].Value)
	require.NoError(t, err)
	assert.Equal(t, owner, tr.Owner)
	assert.Equal(t, to, tr.To)
	assert.Equal(t, int64(1500), tr.Amount)

	_, err = tron.ParseRawData([]byte{0x0a, 0x05, 0x01})
	require.ErrorIs(t, err, walleterr.ErrInvalidTransaction)
}

func TestSign(t *testing.T) {
	t.Parallel()
	owner, to := mustDecode(t, ownerOne), mustDecode(t, zeroAddress)
	raw := rawData(transferContract(owner, to, 2_000_000))

	signed, err := tron.Sign(keyOne(), chain.Mainnet, tron.TxParams{
		To:     zeroAddress,
		Amount: 2_000_000,
		Node:   node(raw),
		Now:    time.UnixMilli(expiration - 1000),
	})
	require.NoError(t, err)
	assert.Equal(t, chain.Tron, signed.ChainID)

	hash := rusbycrypto.SHA256(raw)
	assert.Equal(t, hex.EncodeToString(hash), signed.TxHash)

	// Transaction{1: raw_data, 2: signature}
	b := signed.RawBytes
	num, typ, n := protowire.ConsumeTag(b)
	require.Equal(t, protowire.Number(1), num)
	require.Equal(t, protowire.BytesType, typ)
	gotRaw, m := protowire.ConsumeBytes(b[n:])
	require.Positive(t, m)
	assert.Equal(t, raw, gotRaw)
	b = b[n+m:]
	num, _, n = protowire.ConsumeTag(b)
	require.Equal(t, protowire.Number(2), num)
	sig, m := protowire.ConsumeBytes(b[n:])
	require.Positive(t, m)
	require.Len(t, sig, 65)
	assert.LessOrEqual(t, sig[64], byte(1))

	compact := append([]byte{27 + sig[64]}, sig[:64]...)
	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	require.NoError(t, err)
	assert.True(t, pub.IsEqual(secp256k1.PrivKeyFromBytes(keyOne()).PubKey()))
}

func TestSign_TRC20(t *testing.T) {
	t.Parallel()
	owner, to, token := mustDecode(t, ownerOne), mustDecode(t, zeroAddress), mustDecode(t, usdtContract)

	recipient, err := evm.ChecksumAddress(to[1:])
	require.NoError(t, err)
	data, err := evm.ERC20TransferData(recipient, big.NewInt(5_000_000))
	require.NoError(t, err)

	var v []byte
	v = bytesField(v, 1, owner)
	v = bytesField(v, 2, token)
	v = bytesField(v, 4, data)
	raw := rawData(contract(tron.ContractTriggerSmart, "type.googleapis.com/protocol.TriggerSmartContract", v))

	params := tron.TxParams{
		To:     zeroAddress,
		Amount: 5_000_000,
		Token:  &tron.TokenTransfer{Contract: usdtContract},
		Node:   node(raw),
	}
	signed, err := tron.Sign(keyOne(), chain.Mainnet, params)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(rusbycrypto.SHA256(raw)), signed.TxHash)

	params.Amount = 5_000_001
	_, err = tron.Sign(keyOne(), chain.Mainnet, params)
	require.ErrorIs(t, err, walleterr.ErrInvalidTransaction)
	field, _ := walleterr.Detail(err, "field")
	assert.Equal(t, "data", field)
}

// A node that swaps destination or amount must never get a signature.
func TestSign_RejectsSubstitutedTransactions(t *testing.T) {
	t.Parallel()
	owner, to := mustDecode(t, ownerOne), mustDecode(t, zeroAddress)
	attacker := mustDecode(t, usdtContract)
	good := transferContract(owner, to, 1000)

	tests := []struct {
		name  string
		node  tron.NodeTransaction
		field string
	}{
		{"different destination", node(rawData(transferContract(owner, attacker, 1000))), "to_address"},
		{"different amount", node(rawData(transferContract(owner, to, 1001))), "amount"},
		{"different owner", node(rawData(transferContract(attacker, to, 1000))), "owner_address"},
		{"extra contract", node(rawData(good, transferContract(owner, attacker, 1))), "contract count"},
		{"no contract", node(rawData()), "contract count"},
		{"wrong contract type", node(rawData(contract(tron.ContractTriggerSmart, "type.googleapis.com/protocol.TransferContract", nil))), "contract type"},
		{"txID mismatch", tron.NodeTransaction{TxID: "00", RawDataHex: hex.EncodeToString(rawData(good))}, "txID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			signed, err := tron.Sign(keyOne(), chain.Mainnet, tron.TxParams{To: zeroAddress, Amount: 1000, Node: tt.node})
			require.ErrorIs(t, err, walleterr.ErrInvalidTransaction)
			assert.Nil(t, signed)
			field, ok := walleterr.Detail(err, "field")
			require.True(t, ok)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestSign_Validation(t *testing.T) {
	t.Parallel()
	owner, to := mustDecode(t, ownerOne), mustDecode(t, zeroAddress)
	n := node(rawData(transferContract(owner, to, 1000)))
	balance := int64(999)

	tests := []struct {
		name     string
		params   tron.TxParams
		expected error
	}{
		{"bad destination", tron.TxParams{To: "T123", Amount: 1000, Node: n}, walleterr.ErrInvalidAddress},
		{"zero amount", tron.TxParams{To: zeroAddress, Node: n}, walleterr.ErrInvalidTransaction},
		{"insufficient funds", tron.TxParams{To: zeroAddress, Amount: 1000, Node: n, Balance: &balance}, walleterr.ErrInsufficientFunds},
		{"empty raw data", tron.TxParams{To: zeroAddress, Amount: 1000}, walleterr.ErrInvalidTransaction},
		{"bad hex", tron.TxParams{To: zeroAddress, Amount: 1000, Node: tron.NodeTransaction{RawDataHex: "zz"}}, walleterr.ErrInvalidTransaction},
		{"expired", tron.TxParams{To: zeroAddress, Amount: 1000, Node: n, Now: time.UnixMilli(expiration)}, walleterr.ErrInvalidTransaction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			signed, err := tron.Sign(keyOne(), chain.Mainnet, tt.params)
			require.ErrorIs(t, err, tt.expected)
			assert.Nil(t, signed)
		})
	}
}
