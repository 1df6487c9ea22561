package signer_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusbywallet/rusby/internal/address"
	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/chain/evm"
	"github.com/rusbywallet/rusby/internal/signer"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const ethJSON = `{
	"nonce": 3,
	"to": "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045",
	"value": "1000000000000000000",
	"gas_limit": 21000,
	"max_fee_per_gas": "30000000000",
	"max_priority_fee_per_gas": "1000000000"
}`

func TestDecodeRequest_Ethereum(t *testing.T) {
	t.Parallel()

	req, err := signer.DecodeRequest("ETH", []byte(ethJSON))
	require.NoError(t, err)
	require.Equal(t, chain.Ethereum, req.Chain)
	require.NotNil(t, req.EVM)
	assert.Equal(t, uint64(3), req.EVM.Nonce)
	assert.Equal(t, "1000000000000000000", req.EVM.Value.String())
	assert.Equal(t, big.NewInt(30_000_000_000), req.EVM.MaxFeePerGas)
	assert.Nil(t, req.EVM.Balance)
	assert.Nil(t, req.UTXO)
}

func TestDecodeRequest_ERC20Token(t *testing.T) {
	t.Parallel()
	body := `{
		"to": "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045",
		"value": "2500000",
		"gas_limit": 65000,
		"max_fee_per_gas": "30000000000",
		"max_priority_fee_per_gas": "1000000000",
		"token": {"contract": "0xdac17f958d2ee523a2206206994597c13d831ec7"}
	}`

	req, err := signer.DecodeRequest("polygon", []byte(body))
	require.NoError(t, err)
	assert.Equal(t, "0xdac17f958d2ee523a2206206994597c13d831ec7", req.EVM.To)
	assert.Equal(t, 0, req.EVM.Value.Sign())

	expected, err := evm.ERC20TransferData("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", big.NewInt(2_500_000))
	require.NoError(t, err)
	assert.Equal(t, expected, req.EVM.Data)
}

func TestDecodeRequest_AllFamilies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		chain string
		body  string
		check func(t *testing.T, req signer.Request)
	}{
		{"bitcoin", `{"utxos":[{"txid":"` + strings.Repeat("ab", 32) + `","vout":0,"amount":100000}],"to":"` + abandonBTC + `","amount":5000,"fee_rate":10}`,
			func(t *testing.T, req signer.Request) {
				require.NotNil(t, req.UTXO)
				require.Len(t, req.UTXO.UTXOs, 1)
				assert.Equal(t, uint64(10), req.UTXO.FeeRate)
			}},
		{"cosmos", `{"account_number":12,"sequence":4,"to":"cosmos1fytfvr5764zq4p0adzxp7kzk7nwy99796fl8cx","amount":1000,"memo":"hi"}`,
			func(t *testing.T, req signer.Request) {
				require.NotNil(t, req.Cosmos)
				assert.Equal(t, uint64(12), req.Cosmos.AccountNumber)
				assert.Equal(t, "hi", req.Cosmos.Memo)
			}},
		{"xrp", `{"sequence":9,"to":"rHsMGQEkVNJmpGWs8XUBoTBiAAbwxZN5v3","amount":1000000,"destination_tag":42}`,
			func(t *testing.T, req signer.Request) {
				require.NotNil(t, req.Ripple)
				require.NotNil(t, req.Ripple.DestinationTag)
				assert.Equal(t, uint32(42), *req.Ripple.DestinationTag)
			}},
		{"stellar", `{"sequence":100,"to":"GB3JDWCQJCWMJ3IILWIGDTQJJC5567PGVEVXSCVPEQOTDN64VJBDQBYX","amount":10000000,"memo_text":"rent"}`,
			func(t *testing.T, req signer.Request) {
				require.NotNil(t, req.Stellar)
				assert.Equal(t, int64(100), req.Stellar.Sequence)
				assert.Equal(t, "rent", req.Stellar.MemoText)
			}},
		{"solana", `{"to":"` + abandonSOL + `","amount":5,"recent_blockhash":"` + blockhash + `","token":{"mint":"` + blockhash + `","decimals":6}}`,
			func(t *testing.T, req signer.Request) {
				require.NotNil(t, req.Solana)
				require.NotNil(t, req.Solana.Token)
				assert.Equal(t, uint8(6), req.Solana.Token.Decimals)
			}},
		{"ton", `{"seqno":1,"valid_until":1700000000,"to":"EQCUHtrh5kRU-WBiFEAf7UQ6l6ds9vak782GboIm1RRtf27j","amount":1000,"bounce":false}`,
			func(t *testing.T, req signer.Request) {
				require.NotNil(t, req.TON)
				require.NotNil(t, req.TON.Bounce)
				assert.False(t, *req.TON.Bounce)
			}},
		{"tron", `{"to":"TUEZSdKsoDHQMeZwihtdoBiN46zxhGWYdH","amount":1,"node":{"txID":"` + strings.Repeat("0f", 32) + `","raw_data_hex":"0a02"}}`,
			func(t *testing.T, req signer.Request) {
				require.NotNil(t, req.Tron)
				assert.Equal(t, "0a02", req.Tron.Node.RawDataHex)
				assert.True(t, req.Tron.Now.IsZero())
			}},
	}

	for _, tt := range tests {
		t.Run(tt.chain, func(t *testing.T) {
			t.Parallel()
			req, err := signer.DecodeRequest(tt.chain, []byte(tt.body))
			require.NoError(t, err)
			tt.check(t, req)
		})
	}
}

func TestDecodeRequest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		chain    string
		body     string
		sentinel error
		field    string
	}{
		{"unknown chain", "dogecoin2", `{}`, walleterr.ErrUnsupportedChain, ""},
		{"not json", "ethereum", `{nonce`, walleterr.ErrFormat, ""},
		{"unknown field", "ethereum", `{"gas_price":"1"}`, walleterr.ErrFormat, ""},
		{"trailing data", "ripple", `{"sequence":1,"to":"r","amount":1} {}`, walleterr.ErrFormat, ""},
		{"missing to", "ethereum", `{"gas_limit":21000,"max_fee_per_gas":"1","max_priority_fee_per_gas":"1"}`, walleterr.ErrInvalidInput, "to"},
		{"negative value", "ethereum", strings.Replace(ethJSON, `"1000000000000000000"`, `"-1"`, 1), walleterr.ErrInvalidInput, "value"},
		{"decimal fee", "ethereum", strings.Replace(ethJSON, `"30000000000"`, `"3.5"`, 1), walleterr.ErrInvalidInput, "max_fee_per_gas"},
		{"no utxos", "bitcoin", `{"utxos":[],"to":"x","amount":1,"fee":1}`, walleterr.ErrInvalidInput, "utxos"},
		{"short txid", "litecoin", `{"utxos":[{"txid":"abcd","amount":1}],"to":"x","amount":1,"fee":1}`, walleterr.ErrInvalidInput, "utxos[0].txid"},
		{"no fee", "dogecoin", `{"utxos":[{"txid":"` + strings.Repeat("ab", 32) + `","amount":1}],"to":"x","amount":1}`, walleterr.ErrInvalidInput, "fee_rate"},
		{"both memos", "stellar", `{"to":"G","amount":1,"memo_text":"a","memo_id":5}`, walleterr.ErrInvalidInput, "memo_text"},
		{"tron node missing", "tron", `{"to":"T","amount":1}`, walleterr.ErrInvalidInput, "node.txID"},
		{"data with token", "bsc", `{"to":"0x","gas_limit":1,"max_fee_per_gas":"1","max_priority_fee_per_gas":"1","data":"0xab","token":{"contract":"0x"}}`, walleterr.ErrInvalidInput, "data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := signer.DecodeRequest(tt.chain, []byte(tt.body))
			require.ErrorIs(t, err, tt.sentinel)
			if tt.field != "" {
				field, ok := walleterr.Detail(err, "field")
				require.True(t, ok)
				assert.Equal(t, tt.field, field)
			}
		})
	}
}

func TestDecodeRequest_ThenSign(t *testing.T) {
	t.Parallel()
	seed := abandonSeed(t)

	req, err := signer.DecodeRequest("eip155:10", []byte(ethJSON))
	require.NoError(t, err)
	require.Equal(t, chain.Optimism, req.Chain)

	signed, err := signer.Sign(seed, req, address.Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed.TxHash, "0x"))
	assert.Len(t, signed.TxHash, 66)
}
