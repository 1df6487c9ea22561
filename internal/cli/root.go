// Package cli implements the rusby command-line interface.
//
// Commands are package-level cobra values wired in init functions. The
// configuration and logger globals are set in PersistentPreRunE and
// released in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rusbywallet/rusby/internal/config"
	"github.com/rusbywallet/rusby/internal/metrics"
	"github.com/rusbywallet/rusby/internal/output"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	outputFormat string
	verbose      bool
	testnet      bool

	// Global state initialized in PersistentPreRunE
	cfg    *config.Config
	logger *config.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rusby",
	Short: "Offline multi-chain wallet core",
	Long: `rusby derives addresses and signs transactions for sixteen chains from a
single BIP39 seed. Seeds are stored encrypted with PBKDF2 and AES-256-GCM.
No command talks to the network; UTXOs, nonces and fees are supplied by you.

Example:
  rusby wallet create main
  rusby wallet unlock --chains ethereum,bitcoin
  rusby tx sign --chain ethereum --request tx.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return initGlobals()
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		_ = output.WriteError(os.Stderr, err, errorFormat())
	}
	return err
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	return walleterr.ExitCode(err)
}

func errorFormat() output.Format {
	if cfg != nil && output.ParseFormat(cfg.Output.Format) == output.FormatJSON {
		return output.FormatJSON
	}
	return output.FormatText
}

func initGlobals() error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvPrefix + "_HOME")
	}
	if home == "" {
		home = config.DefaultHome()
	}

	loaded, err := config.Load(config.Path(home))
	if err != nil {
		return err
	}
	cfg = loaded
	cfg.Home = home
	config.ApplyEnvironment(cfg)

	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.Format = outputFormat
	}
	if testnet {
		cfg.Network = "testnet"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.Logging.Level), cfg.LogFile())
	if err != nil {
		logger = config.NullLogger()
	}
	return nil
}

func cleanup() {
	if logger == nil {
		return
	}
	s := metrics.Global.Snapshot()
	logger.Debug("session: %d derivations, %d signatures, %d unlocks (%d failed)",
		s.DerivationsTotal, s.SignaturesTotal, s.UnlocksTotal, s.DecryptFailures)
	_ = logger.Close()
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "rusby data directory (default: ~/.rusby)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use testnet address and network encodings")
}
