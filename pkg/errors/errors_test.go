package errors_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

var (
	errInner     = errors.New("inner")
	errRootCause = errors.New("root cause")
	errPlain     = errors.New("plain error")
)

func TestExitCodes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"success", nil, walleterr.ExitSuccess},
		{"general error", walleterr.ErrGeneral, walleterr.ExitGeneral},
		{"format error", walleterr.ErrFormat, walleterr.ExitInput},
		{"checksum error", walleterr.ErrChecksum, walleterr.ExitInput},
		{"password error", walleterr.ErrPassword, walleterr.ExitAuth},
		{"not found error", walleterr.ErrNotFound, walleterr.ExitNotFound},
		{"insufficient funds", walleterr.ErrInsufficientFunds, walleterr.ExitPermission},
		{"unsupported chain", walleterr.ErrUnsupportedChain, walleterr.ExitInput},
		{"plain error", errPlain, walleterr.ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, walleterr.ExitCode(tt.err))
		})
	}
}

func TestSentinelErrors_SurviveWrapping(t *testing.T) {
	t.Parallel()
	sentinels := []error{
		walleterr.ErrFormat,
		walleterr.ErrChecksum,
		walleterr.ErrCrypto,
		walleterr.ErrInsufficientFunds,
		walleterr.ErrUnsupportedChain,
		walleterr.ErrPassword,
		walleterr.ErrInvalidAddress,
		walleterr.ErrInvalidTransaction,
	}
	for _, sentinel := range sentinels {
		wrapped := walleterr.Wrap(sentinel, "wrapped")
		require.ErrorIs(t, wrapped, sentinel)
		assert.NotErrorIs(t, wrapped, walleterr.ErrGeneral)
	}
}

func TestInsufficientFunds(t *testing.T) {
	t.Parallel()
	err := walleterr.InsufficientFunds(15000, 9000)

	require.ErrorIs(t, err, walleterr.ErrInsufficientFunds)
	required, ok := walleterr.Detail(err, "required")
	require.True(t, ok)
	assert.Equal(t, "15000", required)
	available, ok := walleterr.Detail(err, "available")
	require.True(t, ok)
	assert.Equal(t, "9000", available)
	assert.Equal(t, "insufficient funds for transaction (available: 9000) (required: 15000)", err.Error())
}

func TestLengthMismatch(t *testing.T) {
	t.Parallel()
	err := walleterr.LengthMismatch(walleterr.ErrInvalidInput, "seed", 64, 32)

	require.ErrorIs(t, err, walleterr.ErrInvalidInput)
	assert.Contains(t, err.Error(), "(expected: 64)")
	assert.Contains(t, err.Error(), "(actual: 32)")
	assert.Contains(t, err.Error(), "(field: seed)")
}

func TestWithCause(t *testing.T) {
	t.Parallel()

	t.Run("wallet error sentinel", func(t *testing.T) {
		t.Parallel()
		err := walleterr.WithCause(walleterr.ErrFormat, errInner)
		require.ErrorIs(t, err, walleterr.ErrFormat)
		require.ErrorIs(t, err, errInner)
		assert.Equal(t, "invalid format: inner", err.Error())
	})

	t.Run("plain sentinel", func(t *testing.T) {
		t.Parallel()
		err := walleterr.WithCause(errPlain, errInner)
		require.ErrorIs(t, err, errPlain)
		require.ErrorIs(t, err, errInner)
	})

	t.Run("nil sentinel", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, errInner, walleterr.WithCause(nil, errInner))
	})
}

func TestWithDetailsAndSuggestion(t *testing.T) {
	t.Parallel()
	details := map[string]string{"chain": "ethereum"}
	suggestion := "Try this instead"

	err := walleterr.WithDetails(walleterr.ErrUnsupportedChain, details)
	err = walleterr.WithSuggestion(err, suggestion)

	var we *walleterr.WalletError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, details, we.Details)
	assert.Equal(t, suggestion, we.Suggestion)
	assert.Equal(t, walleterr.CodeUnsupportedChain, we.Code)
}

func TestWrap(t *testing.T) {
	t.Parallel()

	t.Run("wallet error", func(t *testing.T) {
		t.Parallel()
		wrapped := walleterr.Wrap(walleterr.ErrNotFound, "wallet %s", "main")
		assert.Contains(t, wrapped.Error(), "wallet main")
		require.ErrorIs(t, wrapped, walleterr.ErrNotFound)
	})

	t.Run("nil input", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, walleterr.Wrap(nil, "context"))
	})

	t.Run("plain error", func(t *testing.T) {
		t.Parallel()
		wrapped := walleterr.Wrap(errPlain, "context")
		var we *walleterr.WalletError
		require.ErrorAs(t, wrapped, &we)
		assert.Equal(t, walleterr.CodeGeneral, we.Code)
		assert.Equal(t, errPlain, we.Cause)
	})

	t.Run("field preservation", func(t *testing.T) {
		t.Parallel()
		original := walleterr.WithDetails(walleterr.ErrNotFound, map[string]string{"key": "val"})
		original = walleterr.WithSuggestion(original, "try this")
		wrapped := walleterr.Wrap(original, "context")

		var we *walleterr.WalletError
		require.ErrorAs(t, wrapped, &we)
		assert.Equal(t, walleterr.CodeNotFound, we.Code)
		assert.Equal(t, map[string]string{"key": "val"}, we.Details)
		assert.Equal(t, "try this", we.Suggestion)
		assert.Equal(t, walleterr.ExitNotFound, we.ExitCode)
	})
}

func TestWalletError_Error(t *testing.T) {
	t.Parallel()

	t.Run("with details sorted", func(t *testing.T) {
		t.Parallel()
		err := &walleterr.WalletError{
			Code:    "TEST",
			Message: "failed",
			Details: map[string]string{"beta": "2", "alpha": "1"},
		}
		assert.Equal(t, "failed (alpha: 1) (beta: 2)", err.Error())
	})

	t.Run("with details and cause", func(t *testing.T) {
		t.Parallel()
		err := &walleterr.WalletError{
			Code:    "TEST",
			Message: "outer",
			Details: map[string]string{"key": "val"},
			Cause:   errRootCause,
		}
		assert.Equal(t, "outer (key: val): root cause", err.Error())
		assert.Equal(t, errRootCause, err.Unwrap())
	})
}

func TestPasswordError_IsOpaque(t *testing.T) {
	t.Parallel()
	var we *walleterr.WalletError
	require.ErrorAs(t, walleterr.ErrPassword, &we)
	require.NoError(t, we.Unwrap())
	assert.Empty(t, we.Details)
}

func TestCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, walleterr.CodeChecksum, walleterr.Code(walleterr.ErrChecksum))
	assert.Equal(t, walleterr.CodeGeneral, walleterr.Code(errPlain))
	assert.Equal(t, walleterr.CodeGeneral, walleterr.Code(nil))
}

func TestInsufficientFundsBig(t *testing.T) {
	t.Parallel()
	required, _ := new(big.Int).SetString("21000000000000000000", 10)
	err := walleterr.InsufficientFundsBig(required, big.NewInt(5))

	require.ErrorIs(t, err, walleterr.ErrInsufficientFunds)
	got, ok := walleterr.Detail(err, "required")
	require.True(t, ok)
	assert.Equal(t, "21000000000000000000", got)
}
