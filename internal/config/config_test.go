package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/config"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

func TestLoadSave_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.Defaults()
	cfg.Network = "testnet"
	cfg.Chains = []string{"ethereum", "bitcoin"}
	cfg.Derivation.Index = 4
	cfg.Output.Format = "json"

	require.NoError(t, config.Save(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network: testnet\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, chain.Testnet, cfg.NetworkID())
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, config.DefaultWalletFile, cfg.Storage.File)
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("network: [unterminated"), 0o600))

	_, err := config.Load(path)
	require.ErrorIs(t, err, walleterr.ErrConfigInvalid)
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "~/.rusby", cfg.Home)
	assert.Equal(t, chain.Mainnet, cfg.NetworkID())
	assert.Equal(t, "auto", cfg.GetOutputFormat())
	assert.Equal(t, "error", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())

	ids, err := cfg.ChainIDs()
	require.NoError(t, err)
	assert.Equal(t, chain.All(), ids)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		mut   func(c *config.Config)
		field string
	}{
		{"network", func(c *config.Config) { c.Network = "regtest" }, "network"},
		{"chain", func(c *config.Config) { c.Chains = []string{"ethereum", "monero"} }, "chains"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"output format", func(c *config.Config) { c.Output.Format = "yaml" }, "output.format"},
		{"color", func(c *config.Config) { c.Output.Color = "sometimes" }, "output.color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Defaults()
			tt.mut(cfg)

			err := cfg.Validate()
			require.ErrorIs(t, err, walleterr.ErrConfigInvalid)
			field, ok := walleterr.Detail(err, "field")
			require.True(t, ok)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestChainIDs_AliasesAndCAIP2(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Chains = []string{"eth", "eip155:10", "ethereum"}

	ids, err := cfg.ChainIDs()
	require.NoError(t, err)
	assert.Equal(t, []chain.ID{chain.Ethereum, chain.Optimism}, ids)
}

func TestResolvedPaths(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Home = "/var/lib/rusby"

	assert.Equal(t, "/var/lib/rusby/wallets.json", cfg.WalletFile())
	assert.Equal(t, "/var/lib/rusby/backups", cfg.BackupDir())
	assert.Equal(t, "/var/lib/rusby/rusby.log", cfg.LogFile())

	cfg.Storage.File = "/srv/wallets.json"
	assert.Equal(t, "/srv/wallets.json", cfg.WalletFile())
	assert.Equal(t, "/var/lib/rusby/config.yaml", config.Path(cfg.GetHome()))
}

func TestExpandPath(t *testing.T) {
	t.Parallel()
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x", "y"), config.ExpandPath("~/x/y"))
	assert.Equal(t, "/abs/path", config.ExpandPath("/abs/path"))
	assert.Equal(t, "rel", config.ExpandPath("rel"))
}
