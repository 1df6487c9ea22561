package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rusbywallet/rusby/internal/wallet"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var mnemonicWords int

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var (
	mnemonicCmd = &cobra.Command{
		Use:   "mnemonic",
		Short: "Generate and check BIP39 recovery phrases",
	}

	mnemonicGenerateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a new recovery phrase",
		Long: `Generate a BIP39 recovery phrase from fresh entropy. Nothing is stored.

Example:
  rusby mnemonic generate --words 24`,
		Args: cobra.NoArgs,
		RunE: runMnemonicGenerate,
	}

	mnemonicCheckCmd = &cobra.Command{
		Use:   "check <words...>",
		Short: "Validate a recovery phrase and suggest typo fixes",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runMnemonicCheck,
	}
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(mnemonicCmd)
	mnemonicCmd.AddCommand(mnemonicGenerateCmd, mnemonicCheckCmd)

	mnemonicGenerateCmd.Flags().IntVar(&mnemonicWords, "words", 12, "number of words: 12 or 24")
}

func runMnemonicGenerate(cmd *cobra.Command, _ []string) error {
	ctx := GetCmdContext(cmd)

	mnemonic, err := wallet.GenerateMnemonic(mnemonicWords)
	if err != nil {
		return err
	}

	return ctx.Fmt.Result(map[string]any{"mnemonic": mnemonic, "words": mnemonicWords}, func(w io.Writer) error {
		outln(w, mnemonic)
		return nil
	})
}

func runMnemonicCheck(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	phrase := wallet.NormalizeMnemonicInput(strings.Join(args, " "))
	if err := wallet.ValidateMnemonic(phrase); err != nil {
		if typos := wallet.DetectTypos(phrase); len(typos) > 0 {
			return walleterr.WithSuggestion(err, wallet.FormatTypoSuggestions(typos))
		}
		return err
	}

	words := len(strings.Fields(phrase))
	return ctx.Fmt.Result(map[string]any{"valid": true, "words": words}, func(w io.Writer) error {
		out(w, "valid %d-word recovery phrase\n", words)
		return nil
	})
}
