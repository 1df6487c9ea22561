// Package config provides configuration management for rusby.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/fileutil"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Home       string           `yaml:"home"`
	Network    string           `yaml:"network"`
	Chains     []string         `yaml:"chains"`
	Derivation DerivationConfig `yaml:"derivation"`
	Storage    StorageConfig    `yaml:"storage"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DerivationConfig selects the default account and address index.
type DerivationConfig struct {
	Account uint32 `yaml:"account"`
	Index   uint32 `yaml:"index"`
}

// StorageConfig locates the wallet store and backups. Relative paths are
// resolved against Home.
type StorageConfig struct {
	File      string `yaml:"file"`
	BackupDir string `yaml:"backup_dir"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	Format string `yaml:"format"`
	Color  string `yaml:"color"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from path on top of the defaults. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path) //nolint:gosec // G304: config path comes from the user or RUSBY_HOME
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, walleterr.WithCause(walleterr.ErrConfigInvalid, err)
	}
	return cfg, nil
}

// Save writes configuration to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), fileutil.DirPermissions); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return fileutil.WriteAtomic(path, data, 0o600)
}

// Path returns the config file path under home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// DefaultHome returns the default rusby home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rusby"
	}
	return filepath.Join(home, ".rusby")
}

// ExpandPath replaces a leading "~/" with the user's home directory.
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func invalid(field, value, allowed string) error {
	err := walleterr.WithDetails(walleterr.ErrConfigInvalid, map[string]string{
		"field": field,
		"value": value,
	})
	return walleterr.WithSuggestion(err, "allowed values: "+allowed)
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if _, err := chain.ParseNetwork(c.Network); err != nil {
		return invalid("network", c.Network, "mainnet, testnet")
	}
	for _, name := range c.Chains {
		if _, err := chain.Parse(name); err != nil {
			return invalid("chains", name, "a chain id, alias or CAIP-2 id")
		}
	}
	if !isLogLevel(c.Logging.Level) {
		return invalid("logging.level", c.Logging.Level, "off, error, debug")
	}
	switch c.Output.Format {
	case "", "auto", "text", "json":
	default:
		return invalid("output.format", c.Output.Format, "auto, text, json")
	}
	switch c.Output.Color {
	case "", "auto", "always", "never":
	default:
		return invalid("output.color", c.Output.Color, "auto, always, never")
	}
	return nil
}

// NetworkID returns the configured network, mainnet when unset.
func (c *Config) NetworkID() chain.Network {
	n, err := chain.ParseNetwork(c.Network)
	if err != nil {
		return chain.Mainnet
	}
	return n
}

// ChainIDs returns the configured default chains, every chain when unset.
func (c *Config) ChainIDs() ([]chain.ID, error) {
	if len(c.Chains) == 0 {
		return chain.All(), nil
	}
	return chain.ParseList(strings.Join(c.Chains, ","))
}

func (c *Config) resolve(path string) string {
	path = ExpandPath(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(ExpandPath(c.Home), path)
}

// WalletFile returns the resolved wallet store path.
func (c *Config) WalletFile() string {
	return c.resolve(c.Storage.File)
}

// BackupDir returns the resolved backup directory.
func (c *Config) BackupDir() string {
	return c.resolve(c.Storage.BackupDir)
}

// LogFile returns the resolved log file path.
func (c *Config) LogFile() string {
	return c.resolve(c.Logging.File)
}

// GetHome returns the rusby home directory.
func (c *Config) GetHome() string {
	return c.Home
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.Format
}
