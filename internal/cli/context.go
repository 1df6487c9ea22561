package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/rusbywallet/rusby/internal/address"
	"github.com/rusbywallet/rusby/internal/config"
	"github.com/rusbywallet/rusby/internal/output"
	"github.com/rusbywallet/rusby/internal/walletstore"
)

// CommandContext holds what a command needs from the global state.
type CommandContext struct {
	Cfg     *config.Config
	Log     *config.Logger
	Fmt     *output.Formatter
	Storage *walletstore.FileStorage
}

// GetCmdContext builds the context for cmd from the globals.
func GetCmdContext(cmd *cobra.Command) *CommandContext {
	c := cfg
	if c == nil {
		c = config.Defaults()
	}
	l := logger
	if l == nil {
		l = config.NullLogger()
	}
	return &CommandContext{
		Cfg:     c,
		Log:     l,
		Fmt:     output.NewFormatter(output.ParseFormat(c.Output.Format), cmd.OutOrStdout()),
		Storage: walletstore.NewFileStorage(c.WalletFile()),
	}
}

// Options returns derivation options for account and index on the
// configured network.
func (c *CommandContext) Options(account, index uint32) address.Options {
	return address.Options{Account: account, Index: index, Network: c.Cfg.NetworkID()}
}

// Out returns the command output writer.
func (c *CommandContext) Out() io.Writer {
	return c.Fmt.Writer()
}
