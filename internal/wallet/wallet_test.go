package wallet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

func TestValidateWalletName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"main", "my_wallet", "cold-storage-2", strings.Repeat("a", 64)} {
		require.NoError(t, ValidateWalletName(name), name)
	}
	for _, name := range []string{"", "my wallet", "wallet!", strings.Repeat("a", 65), "кошелек"} {
		require.ErrorIs(t, ValidateWalletName(name), walleterr.ErrInvalidInput, name)
	}
}

func TestSuggestWalletName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already valid", "myWallet123", "myWallet123"},
		{"hyphens and underscores", "my-wallet_name", "my-wallet_name"},
		{"spaces", "  my wallet name ", "mywalletname"},
		{"control characters", "my\x00wal\nlet", "mywallet"},
		{"punctuation", "my@wallet.name!", "mywalletname"},
		{"path separators", "my/wallet\\name", "mywalletname"},
		{"emoji", "my\U0001F525wallet", "mywallet"},
		{"cyrillic", "myкошелек", "my"},
		{"truncated", strings.Repeat("ab", 40), strings.Repeat("ab", 32)},
		{"nothing left", "!@#$%^&*()", ""},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			suggested := SuggestWalletName(tc.input)
			assert.Equal(t, tc.expected, suggested)
			if suggested != "" {
				assert.NoError(t, ValidateWalletName(suggested))
			}
		})
	}
}
