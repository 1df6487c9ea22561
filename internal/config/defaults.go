package config

// Default file names under the home directory.
const (
	DefaultWalletFile = "wallets.json"
	DefaultBackupDir  = "backups"
	DefaultLogFile    = "rusby.log"
)

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.rusby",
		Network: "mainnet",
		Storage: StorageConfig{
			File:      DefaultWalletFile,
			BackupDir: DefaultBackupDir,
		},
		Output: OutputConfig{
			Format: "auto",
			Color:  "auto",
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  DefaultLogFile,
		},
	}
}
