package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/rusbywallet/rusby/internal/address"
	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/output"
	"github.com/rusbywallet/rusby/internal/wallet"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	fromXPubAccount uint32
	fromXPubIndex   uint32
	fromXPubCount   uint32
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var (
	addressCmd = &cobra.Command{
		Use:   "address",
		Short: "Inspect addresses",
	}

	addressValidateCmd = &cobra.Command{
		Use:   "validate <chain> <address>",
		Short: "Check an address for a chain and show its payload",
		Long: `Check that an address is well formed for a chain on the configured network
and print the hash or public key it encodes.

Example:
  rusby address validate bitcoin bc1qcr8te4kr609gcawutmrza0j4xv80jy8z306fyu
  rusby address validate xrp rHsMGQEkVNJmpGWs8XUBoTBiAAbwxZN5v3`,
		Args: cobra.ExactArgs(2),
		RunE: runAddressValidate,
	}

	addressFromXPubCmd = &cobra.Command{
		Use:   "from-xpub <chain> <xpub>",
		Short: "Derive addresses from an account extended public key",
		Long: `Derive receive addresses below an account xpub made by "rusby wallet xpub".
No password or seed is needed. --account only labels the printed paths.

Example:
  rusby address from-xpub ethereum xpub6... --index 0 --count 5`,
		Args: cobra.ExactArgs(2),
		RunE: runAddressFromXPub,
	}
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(addressCmd)
	addressCmd.AddCommand(addressValidateCmd, addressFromXPubCmd)

	addressFromXPubCmd.Flags().Uint32Var(&fromXPubAccount, "account", 0, "account the xpub belongs to")
	addressFromXPubCmd.Flags().Uint32Var(&fromXPubIndex, "index", 0, "first address index")
	addressFromXPubCmd.Flags().Uint32Var(&fromXPubCount, "count", 1, "number of addresses")
}

func runAddressValidate(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	id, err := chain.Parse(args[0])
	if err != nil {
		return err
	}
	addr := wallet.SanitizeAddressInput(id, args[1])

	payload, err := address.Decode(id, addr, ctx.Cfg.NetworkID())
	if err != nil {
		return err
	}

	result := map[string]any{
		"chain":   id,
		"address": addr,
		"network": ctx.Cfg.NetworkID(),
		"payload": encoding.HexEncode(payload),
		"valid":   true,
	}
	return ctx.Fmt.Result(result, func(w io.Writer) error {
		out(w, "valid %s address, payload %s\n", id, result["payload"])
		return nil
	})
}

func runAddressFromXPub(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	id, err := chain.Parse(args[0])
	if err != nil {
		return err
	}
	if fromXPubCount == 0 || fromXPubCount > 1000 {
		return walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": "count must be between 1 and 1000"})
	}

	addrs := make([]*address.Address, 0, fromXPubCount)
	for i := uint32(0); i < fromXPubCount; i++ {
		addr, err := address.FromXPub(args[1], id, ctx.Options(fromXPubAccount, fromXPubIndex+i))
		if err != nil {
			return err
		}
		addrs = append(addrs, addr)
	}

	return ctx.Fmt.Result(addrs, func(w io.Writer) error {
		t := output.NewTable("PATH", "ADDRESS")
		for _, a := range addrs {
			t.AddRow(a.Path, a.Address)
		}
		return t.Render(w)
	})
}
