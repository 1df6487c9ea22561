package solana_test

import (
	"bytes"
	"crypto/ed25519"
	"math"
	"testing"

	sol "github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/chain/solana"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	blockhash = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	usdcMint  = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func seed(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func addressOf(t *testing.T, s []byte) (string, []byte) {
	t.Helper()
	pub, err := rusbycrypto.Ed25519PublicKey(s)
	require.NoError(t, err)
	addr, err := solana.DeriveAddress(pub)
	require.NoError(t, err)
	return addr, pub
}

func TestAddress(t *testing.T) {
	t.Parallel()

	addr, err := solana.DeriveAddress(make([]byte, 32))
	require.NoError(t, err)
	assert.Equal(t, "11111111111111111111111111111111", addr)

	recipient, pub := addressOf(t, seed(7))
	decoded, err := solana.DecodeAddress(recipient)
	require.NoError(t, err)
	assert.Equal(t, pub, decoded)

	_, err = solana.DeriveAddress(pub[:31])
	require.ErrorIs(t, err, walleterr.ErrCrypto)
}

func TestDecodeAddress_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		addr string
	}{
		{"invalid alphabet", "0OIl"},
		{"too short", "3yZe7d"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := solana.DecodeAddress(tt.addr)
			require.ErrorIs(t, err, walleterr.ErrInvalidAddress)
		})
	}
}

func TestFee(t *testing.T) {
	t.Parallel()
	assert.Equal(t, uint64(5000), solana.TxParams{}.Fee())
	assert.Equal(t, uint64(5200), solana.TxParams{ComputeUnitPrice: 1000}.Fee())
	assert.Equal(t, uint64(5001), solana.TxParams{ComputeUnitPrice: 1, ComputeUnitLimit: 10}.Fee())
}

func programIDs(t *testing.T, tx *sol.Transaction) []sol.PublicKey {
	t.Helper()
	out := make([]sol.PublicKey, 0, len(tx.Message.Instructions))
	for _, ix := range tx.Message.Instructions {
		id, err := tx.Message.Program(ix.ProgramIDIndex)
		require.NoError(t, err)
		out = append(out, id)
	}
	return out
}

func TestSign_SOLTransfer(t *testing.T) {
	t.Parallel()
	to, _ := addressOf(t, seed(7))
	_, pub := addressOf(t, seed(1))

	signed, err := solana.Sign(seed(1), solana.TxParams{
		To:              to,
		Amount:          1_500_000,
		RecentBlockhash: blockhash,
	})
	require.NoError(t, err)
	assert.Equal(t, chain.Solana, signed.ChainID)
	assert.Equal(t, byte(1), signed.RawBytes[0], "signature count")

	parsed, err := sol.TransactionFromBytes(signed.RawBytes)
	require.NoError(t, err)
	require.Len(t, parsed.Signatures, 1)
	assert.Equal(t, parsed.Signatures[0].String(), signed.TxHash)

	msg, err := parsed.Message.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, signed.RawBytes[65:], msg)
	assert.True(t, ed25519.Verify(pub, msg, parsed.Signatures[0][:]))

	assert.Equal(t, sol.PublicKeyFromBytes(pub), parsed.Message.AccountKeys[0], "fee payer")
	assert.Equal(t, []sol.PublicKey{sol.SystemProgramID}, programIDs(t, parsed))
	assert.Equal(t, blockhash, parsed.Message.RecentBlockhash.String())
}

func TestSign_TokenTransferWithPriorityFee(t *testing.T) {
	t.Parallel()
	to, _ := addressOf(t, seed(7))

	signed, err := solana.Sign(seed(1), solana.TxParams{
		To:               to,
		Amount:           2_000_000,
		RecentBlockhash:  blockhash,
		ComputeUnitPrice: 5000,
		ComputeUnitLimit: 100_000,
		Token: &solana.TokenTransfer{
			Mint:              usdcMint,
			Decimals:          6,
			CreateDestination: true,
		},
	})
	require.NoError(t, err)

	parsed, err := sol.TransactionFromBytes(signed.RawBytes)
	require.NoError(t, err)
	assert.Equal(t, []sol.PublicKey{
		sol.ComputeBudget,
		sol.ComputeBudget,
		sol.SPLAssociatedTokenAccountProgramID,
		sol.TokenProgramID,
	}, programIDs(t, parsed))
}

func TestSign_Validation(t *testing.T) {
	t.Parallel()
	to, _ := addressOf(t, seed(7))
	balance := uint64(1_004_999)

	tests := []struct {
		name     string
		params   solana.TxParams
		expected error
	}{
		{"bad destination", solana.TxParams{To: "nope!", Amount: 1, RecentBlockhash: blockhash}, walleterr.ErrInvalidAddress},
		{"zero amount", solana.TxParams{To: to, RecentBlockhash: blockhash}, walleterr.ErrInvalidTransaction},
		{"missing blockhash", solana.TxParams{To: to, Amount: 1}, walleterr.ErrInvalidTransaction},
		{"bad mint", solana.TxParams{To: to, Amount: 1, RecentBlockhash: blockhash, Token: &solana.TokenTransfer{Mint: "xyz"}}, walleterr.ErrInvalidAddress},
		{"insufficient funds", solana.TxParams{To: to, Amount: 1_000_000, RecentBlockhash: blockhash, Balance: &balance}, walleterr.ErrInsufficientFunds},
		{"amount plus fee overflows", solana.TxParams{To: to, Amount: math.MaxUint64, RecentBlockhash: blockhash, Balance: &balance}, walleterr.ErrInvalidTransaction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			signed, err := solana.Sign(seed(1), tt.params)
			require.ErrorIs(t, err, tt.expected)
			assert.Nil(t, signed)
		})
	}

	_, err := solana.Sign(seed(1)[:16], solana.TxParams{To: to, Amount: 1, RecentBlockhash: blockhash})
	require.ErrorIs(t, err, walleterr.ErrCrypto)
}
