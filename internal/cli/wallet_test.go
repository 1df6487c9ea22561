package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/wallet"
	"github.com/rusbywallet/rusby/internal/walletstore"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

func TestWalletCreate_NewMnemonic(t *testing.T) {
	home := setupTestEnv(t)
	withMockPrompts(t, testPassword, "")
	createWords = 24

	cmd, buf := testCmd()
	require.NoError(t, runWalletCreate(cmd, []string{"main"}))

	var result map[string]any
	decodeJSON(t, buf, &result)
	assert.Equal(t, "main", result["name"])
	mnemonic, ok := result["mnemonic"].(string)
	require.True(t, ok)
	assert.Len(t, strings.Fields(mnemonic), 24)
	require.NoError(t, wallet.ValidateMnemonic(mnemonic))

	store, err := walletstore.NewFileStorage(cfg.WalletFile()).Load()
	require.NoError(t, err)
	require.Len(t, store.Wallets, 1)
	assert.Contains(t, cfg.WalletFile(), home)
}

func TestWalletCreate_Errors(t *testing.T) {
	setupTestEnv(t)
	createRestoredWallet(t, "main")

	tests := []struct {
		name     string
		wallet   string
		password string
		seed     string
		expected error
	}{
		{"duplicate", "main", testPassword, abandonAbout, walletstore.ErrWalletExists},
		{"bad name", "bad name", testPassword, abandonAbout, wallet.ErrInvalidWalletName},
		{"bad mnemonic", "other", testPassword, "abandon abandon", walleterr.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withMockPrompts(t, tt.password, tt.seed)
			createRestore = true
			cmd, _ := testCmd()
			require.ErrorIs(t, runWalletCreate(cmd, []string{tt.wallet}), tt.expected)
		})
	}
}

func TestWalletListAndUse(t *testing.T) {
	setupTestEnv(t)
	createRestoredWallet(t, "main")
	createRestoredWallet(t, "spare")

	cmd, buf := testCmd()
	require.NoError(t, runWalletList(cmd, nil))
	var list []walletstore.Summary
	decodeJSON(t, buf, &list)
	require.Len(t, list, 2)
	assert.True(t, list[1].Active)

	cmd, _ = testCmd()
	require.NoError(t, runWalletUse(cmd, []string{"main"}))

	cmd, buf = testCmd()
	require.NoError(t, runWalletList(cmd, nil))
	list = nil
	decodeJSON(t, buf, &list)
	assert.True(t, list[0].Active)
	assert.False(t, list[1].Active)

	cmd, _ = testCmd()
	require.NoError(t, runWalletUse(cmd, []string{"1"}))
	cmd, _ = testCmd()
	require.ErrorIs(t, runWalletUse(cmd, []string{"7"}), walleterr.ErrNotFound)
	cmd, _ = testCmd()
	require.ErrorIs(t, runWalletUse(cmd, []string{"nope"}), walleterr.ErrNotFound)
}

func TestWalletList_TextEmpty(t *testing.T) {
	setupTestEnv(t)
	cfg.Output.Format = "text"

	cmd, buf := testCmd()
	require.NoError(t, runWalletList(cmd, nil))
	assert.Contains(t, buf.String(), "No wallets")
}

func TestWalletUnlock(t *testing.T) {
	setupTestEnv(t)
	createRestoredWallet(t, "main")
	unlockChains = "eth,bitcoin,xrp"

	cmd, buf := testCmd()
	require.NoError(t, runWalletUnlock(cmd, nil))

	var rows []unlockedAddress
	decodeJSON(t, buf, &rows)
	assert.Equal(t, []unlockedAddress{
		{Chain: chain.Ethereum, Address: "0x9858EfFD232B4033E47d90003D41EC34EcaEda94"},
		{Chain: chain.Bitcoin, Address: "bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu"},
		{Chain: chain.Ripple, Address: "rHsMGQEkVNJmpGWs8XUBoTBiAAbwxZN5v3"},
	}, rows)
}

func TestWalletUnlock_TestnetIndex(t *testing.T) {
	setupTestEnv(t)
	createRestoredWallet(t, "main")
	cfg.Network = "testnet"
	unlockChains = "bitcoin"

	cmd, buf := testCmd()
	require.NoError(t, runWalletUnlock(cmd, []string{"main"}))
	var rows []unlockedAddress
	decodeJSON(t, buf, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "tb1qcr8te4kr609gcawutmrza0j4xv80jy8zmfp6l0", rows[0].Address)

	unlockChains, unlockIndex, cfg.Network = "ethereum", 1, "mainnet"
	cmd, buf = testCmd()
	require.NoError(t, runWalletUnlock(cmd, nil))
	rows = nil
	decodeJSON(t, buf, &rows)
	assert.Equal(t, "0x6Fac4D18c912343BF86fa7049364Dd4E424Ab9C0", rows[0].Address)
}

func TestWalletUnlock_Errors(t *testing.T) {
	setupTestEnv(t)

	cmd, _ := testCmd()
	require.ErrorIs(t, runWalletUnlock(cmd, nil), walleterr.ErrNotFound)

	createRestoredWallet(t, "main")
	withMockPrompts(t, "wrong password", "")
	cmd, _ = testCmd()
	require.ErrorIs(t, runWalletUnlock(cmd, nil), walleterr.ErrPassword)

	unlockChains = "monero"
	cmd, _ = testCmd()
	require.ErrorIs(t, runWalletUnlock(cmd, nil), walleterr.ErrUnsupportedChain)
}

func TestWalletUnlock_TextTable(t *testing.T) {
	setupTestEnv(t)
	createRestoredWallet(t, "main")
	cfg.Output.Format = "text"
	unlockChains = "solana"

	cmd, buf := testCmd()
	require.NoError(t, runWalletUnlock(cmd, nil))
	assert.Contains(t, buf.String(), "HAgk14JpMQLgt6rVgv7cBQFJWFto5Dqxi472uT3DKpqk")
}
