package signer_test

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"testing"

	"github.com/btcsuite/btcd/wire"
	"github.com/ethereum/go-ethereum/core/types"
	sol "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusbywallet/rusby/internal/address"
	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/chain/evm"
	"github.com/rusbywallet/rusby/internal/chain/solana"
	"github.com/rusbywallet/rusby/internal/chain/utxo"
	"github.com/rusbywallet/rusby/internal/metrics"
	"github.com/rusbywallet/rusby/internal/signer"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	abandonSeedHex = "5eb00bbddcf069084889a8ab9155568165f5c453ccb85e70811aaed6f6da5fc1" +
		"9a5ac40b389cd370d086206dec8aa6c43daea6690f20ad3d8d48b2d2ce9e38e4"
	abandonETH = "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"
	abandonBTC = "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu"
	abandonSOL = "HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk"
	blockhash  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func abandonSeed(t *testing.T) []byte {
	t.Helper()
	seed, err := hex.DecodeString(abandonSeedHex)
	require.NoError(t, err)
	return seed
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Debug(format string, args ...any) { l.add("DEBUG "+format, args...) }
func (l *recordingLogger) Error(format string, args ...any) { l.add("ERROR "+format, args...) }

func (l *recordingLogger) add(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) text() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.lines, "\n")
}

func evmRequest() signer.Request {
	return signer.Request{
		Chain: chain.Ethereum,
		EVM: &evm.TxParams{
			Nonce:                7,
			To:                   "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045",
			Value:                big.NewInt(1_000_000_000_000_000),
			GasLimit:             21000,
			MaxFeePerGas:         big.NewInt(30_000_000_000),
			MaxPriorityFeePerGas: big.NewInt(1_000_000_000),
		},
	}
}

func TestSign_EVMRecoversSender(t *testing.T) {
	t.Parallel()
	seed := abandonSeed(t)

	signed, err := signer.Sign(seed, evmRequest(), address.Options{})
	require.NoError(t, err)
	require.Equal(t, chain.Ethereum, signed.ChainID)
	require.Equal(t, byte(0x02), signed.RawBytes[0])

	var tx types.Transaction
	require.NoError(t, tx.UnmarshalBinary(signed.RawBytes))
	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), &tx)
	require.NoError(t, err)
	assert.Equal(t, abandonETH, sender.Hex())
	assert.Equal(t, tx.Hash().Hex(), signed.TxHash)
	assert.Equal(t, uint64(7), tx.Nonce())
}

func TestSign_PolygonUsesItsChainID(t *testing.T) {
	t.Parallel()
	req := evmRequest()
	req.Chain = chain.Polygon

	signed, err := signer.Sign(abandonSeed(t), req, address.Options{})
	require.NoError(t, err)

	var tx types.Transaction
	require.NoError(t, tx.UnmarshalBinary(signed.RawBytes))
	assert.Equal(t, big.NewInt(137), tx.ChainId())
}

func TestSign_Bitcoin(t *testing.T) {
	t.Parallel()
	req := signer.Request{
		Chain: chain.Bitcoin,
		UTXO: &utxo.TxParams{
			UTXOs: []utxo.UTXO{{
				TxID:   strings.Repeat("ab", 32),
				Vout:   1,
				Amount: 100_000,
			}},
			To:     abandonBTC,
			Amount: 40_000,
			Fee:    1_000,
		},
	}

	signed, err := signer.Sign(abandonSeed(t), req, address.Options{})
	require.NoError(t, err)

	var msg wire.MsgTx
	require.NoError(t, msg.Deserialize(bytes.NewReader(signed.RawBytes)))
	require.Len(t, msg.TxIn, 1)
	require.Len(t, msg.TxIn[0].Witness, 2)
	require.Len(t, msg.TxOut, 2)
	assert.Equal(t, int64(40_000), msg.TxOut[0].Value)
	assert.Equal(t, int64(59_000), msg.TxOut[1].Value)
	assert.Equal(t, msg.TxHash().String(), signed.TxHash)
}

func TestSign_InsufficientFundsReturnsNothing(t *testing.T) {
	t.Parallel()
	req := signer.Request{
		Chain: chain.Dogecoin,
		UTXO: &utxo.TxParams{
			UTXOs:  []utxo.UTXO{{TxID: strings.Repeat("cd", 32), Amount: 5_000_000}},
			To:     "DBus3bamQjgJULBJtYXpEzDWQRwF5iwxgC",
			Amount: 5_000_000,
			Fee:    1_000_000,
		},
	}

	signed, err := signer.Sign(abandonSeed(t), req, address.Options{})
	require.ErrorIs(t, err, walleterr.ErrInsufficientFunds)
	assert.Nil(t, signed)
}

func TestSign_Solana(t *testing.T) {
	t.Parallel()
	req := signer.Request{
		Chain: chain.Solana,
		Solana: &solana.TxParams{
			To:              "Hh8QwFUA6MtVu1qAoq12ucvFHNwCcVTV7hpWjeY1Hztb",
			Amount:          1_000_000,
			RecentBlockhash: blockhash,
		},
	}

	signed, err := signer.Sign(abandonSeed(t), req, address.Options{})
	require.NoError(t, err)

	tx, err := sol.TransactionFromBytes(signed.RawBytes)
	require.NoError(t, err)
	require.NoError(t, tx.VerifySignatures())
	assert.Equal(t, abandonSOL, tx.Message.AccountKeys[0].String())
	assert.Equal(t, tx.Signatures[0].String(), signed.TxHash)
}

func TestSign_RequestErrors(t *testing.T) {
	t.Parallel()
	seed := abandonSeed(t)

	t.Run("unknown chain", func(t *testing.T) {
		t.Parallel()
		_, err := signer.Sign(seed, signer.Request{Chain: "bogus"}, address.Options{})
		require.ErrorIs(t, err, walleterr.ErrUnsupportedChain)
	})

	t.Run("missing parameters", func(t *testing.T) {
		t.Parallel()
		req := signer.Request{Chain: chain.Bitcoin, EVM: evmRequest().EVM}
		_, err := signer.Sign(seed, req, address.Options{})
		require.ErrorIs(t, err, walleterr.ErrInvalidInput)
		reason, ok := walleterr.Detail(err, "reason")
		require.True(t, ok)
		assert.Equal(t, "missing utxo parameters", reason)
	})

	t.Run("bad seed", func(t *testing.T) {
		t.Parallel()
		_, err := signer.Sign(seed[:16], evmRequest(), address.Options{})
		require.Error(t, err)
	})
}

func TestSigner_LogsHashNotKey(t *testing.T) {
	t.Parallel()
	seed := abandonSeed(t)
	log := &recordingLogger{}

	signed, err := signer.New(log).Sign(seed, evmRequest(), address.Options{})
	require.NoError(t, err)

	kp, err := address.DeriveKey(seed, chain.Ethereum, address.Options{})
	require.NoError(t, err)
	defer kp.Zero()

	text := log.text()
	assert.Contains(t, text, signed.TxHash)
	assert.Contains(t, text, "DEBUG signed ethereum")
	assert.NotContains(t, text, hex.EncodeToString(kp.PrivateKey))
	assert.NotContains(t, text, abandonSeedHex)

	_, err = signer.New(log).Sign(seed, signer.Request{Chain: chain.Ripple}, address.Options{})
	require.Error(t, err)
	assert.Contains(t, log.text(), "ERROR sign ripple")
}

func TestSign_RecordsMetrics(t *testing.T) {
	t.Parallel()
	before := metrics.Global.SignaturesFor(string(chain.Base))

	req := evmRequest()
	req.Chain = chain.Base
	_, err := signer.Sign(abandonSeed(t), req, address.Options{})
	require.NoError(t, err)

	assert.Greater(t, metrics.Global.SignaturesFor(string(chain.Base)), before)
}

func TestSignPersonalMessage(t *testing.T) {
	t.Parallel()
	seed := abandonSeed(t)

	first, err := signer.SignPersonalMessage(seed, []byte("hello rusby"), address.Options{})
	require.NoError(t, err)
	second, err := signer.SignPersonalMessage(seed, []byte("another message"), address.Options{})
	require.NoError(t, err)

	assert.Equal(t, abandonETH, first.Address)
	require.Len(t, first.Signature, 65)
	assert.Contains(t, []byte{27, 28}, first.Signature[64])
	assert.NotEqual(t, first.Signature, second.Signature)

	for msg, sig := range map[string][]byte{"hello rusby": first.Signature, "another message": second.Signature} {
		recovered, err := evm.RecoverPersonalSigner([]byte(msg), sig)
		require.NoError(t, err)
		assert.Equal(t, abandonETH, recovered)
	}
}
