package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rusbywallet/rusby/internal/address"
	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/output"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	"github.com/rusbywallet/rusby/internal/wallet"
	"github.com/rusbywallet/rusby/internal/walletstore"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	createWords      int
	createPassphrase bool
	createRestore    bool

	unlockChains  string
	unlockAccount uint32
	unlockIndex   uint32
	unlockQR      bool

	xpubChain   string
	xpubAccount uint32
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var (
	walletCmd = &cobra.Command{
		Use:   "wallet",
		Short: "Manage encrypted wallets",
		Long:  `Create, list, select and unlock wallets kept in the encrypted wallet store.`,
	}

	walletCreateCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Create a wallet from a new or existing recovery phrase",
		Long: `Create a wallet and make it active. The seed is encrypted under a password
you choose; only the encrypted seed is written.

A new recovery phrase is shown once. With --restore you are asked for an
existing phrase or a 64-byte hex seed instead.

Example:
  rusby wallet create main --words 24
  rusby wallet create old --restore --passphrase`,
		Args: cobra.ExactArgs(1),
		RunE: runWalletCreate,
	}

	walletListCmd = &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List wallets",
		Args:    cobra.NoArgs,
		RunE:    runWalletList,
	}

	walletUseCmd = &cobra.Command{
		Use:   "use <name|index>",
		Short: "Select the active wallet",
		Args:  cobra.ExactArgs(1),
		RunE:  runWalletUse,
	}

	walletUnlockCmd = &cobra.Command{
		Use:   "unlock [name|index]",
		Short: "Decrypt a wallet and show its addresses",
		Long: `Decrypt a wallet and derive its addresses. The decrypted seed is wiped
before the command returns and is never written.

Example:
  rusby wallet unlock
  rusby wallet unlock main --chains eth,sol --index 2
  rusby wallet unlock --chains bitcoin --qr`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWalletUnlock,
	}

	walletXPubCmd = &cobra.Command{
		Use:   "xpub [name|index]",
		Short: "Show an account extended public key for watch-only use",
		Long: `Show the account-level extended public key of a secp256k1 chain. Anyone
holding it can derive the account's addresses, never its keys.

Example:
  rusby wallet xpub --chain bitcoin
  rusby address from-xpub bitcoin xpub6... --count 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: runWalletXPub,
	}
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(walletCmd)
	walletCmd.AddCommand(walletCreateCmd, walletListCmd, walletUseCmd, walletUnlockCmd, walletXPubCmd)

	walletCreateCmd.Flags().IntVar(&createWords, "words", 12, "number of words for a new phrase: 12 or 24")
	walletCreateCmd.Flags().BoolVar(&createPassphrase, "passphrase", false, "ask for a BIP39 passphrase")
	walletCreateCmd.Flags().BoolVar(&createRestore, "restore", false, "restore from an existing phrase or hex seed")

	walletUnlockCmd.Flags().StringVar(&unlockChains, "chains", "", "comma-separated chains (default: config chains, else all)")
	walletUnlockCmd.Flags().Uint32Var(&unlockAccount, "account", 0, "BIP44 account")
	walletUnlockCmd.Flags().Uint32Var(&unlockIndex, "index", 0, "address index")
	walletUnlockCmd.Flags().BoolVar(&unlockQR, "qr", false, "draw a QR code per address on a terminal")

	walletXPubCmd.Flags().StringVarP(&xpubChain, "chain", "c", "", "secp256k1 chain (required)")
	walletXPubCmd.Flags().Uint32Var(&xpubAccount, "account", 0, "BIP44 account")
	_ = walletXPubCmd.MarkFlagRequired("chain")
}

// resolveWallet maps a name or index argument to a store index. No
// argument means the active wallet.
func resolveWallet(store *walletstore.Store, arg string) (int, error) {
	if arg == "" {
		_, idx, err := store.Active()
		return idx, err
	}
	if idx, err := strconv.Atoi(arg); err == nil {
		if _, err := store.Entry(idx); err != nil {
			return 0, err
		}
		return idx, nil
	}
	return store.Find(arg)
}

func seedForCreate() (seed []byte, mnemonic string, err error) {
	var passphrase string
	if createPassphrase {
		if passphrase, err = promptPassphraseFn(); err != nil {
			return nil, "", err
		}
	}

	if createRestore {
		input, err := promptSeedFn()
		if err != nil {
			return nil, "", err
		}
		seed, _, err = wallet.ParseSeedInput(input, passphrase)
		return seed, "", err
	}

	if mnemonic, err = wallet.GenerateMnemonic(createWords); err != nil {
		return nil, "", err
	}
	seed, err = wallet.MnemonicToSeed(mnemonic, passphrase)
	return seed, mnemonic, err
}

func runWalletCreate(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)
	name := args[0]

	store, err := ctx.Storage.Load()
	if err != nil {
		return err
	}
	if err := wallet.ValidateWalletName(name); err != nil {
		return err
	}
	if _, err := store.Find(name); err == nil {
		return walleterr.WithDetails(walletstore.ErrWalletExists, map[string]string{"name": name})
	}

	seed, mnemonic, err := seedForCreate()
	if err != nil {
		return err
	}
	defer rusbycrypto.Zero(seed)

	password, err := promptNewPasswordFn()
	if err != nil {
		return err
	}
	defer rusbycrypto.Zero(password)

	idx, err := store.CreateWallet(name, seed, password)
	if err != nil {
		return err
	}
	if err := ctx.Storage.Save(store); err != nil {
		return err
	}
	ctx.Log.Debug("wallet %s created at index %d", name, idx)

	result := map[string]any{"name": name, "index": idx, "active": true}
	if mnemonic != "" {
		result["mnemonic"] = mnemonic
	}
	return ctx.Fmt.Result(result, func(w io.Writer) error {
		out(w, "Created wallet %q (index %d) and made it active.\n", name, idx)
		if mnemonic != "" {
			outln(w)
			outln(w, "Recovery phrase. Write it down; it will not be shown again:")
			outln(w)
			outln(w, "  "+mnemonic)
		}
		return nil
	})
}

func runWalletList(cmd *cobra.Command, _ []string) error {
	ctx := GetCmdContext(cmd)

	store, err := ctx.Storage.Load()
	if err != nil {
		return err
	}
	list := store.List()

	return ctx.Fmt.Result(list, func(w io.Writer) error {
		if len(list) == 0 {
			outln(w, "No wallets. Create one with: rusby wallet create <name>")
			return nil
		}
		t := output.NewTable("", "INDEX", "NAME", "CREATED")
		for _, s := range list {
			marker := ""
			if s.Active {
				marker = "*"
			}
			t.AddRow(marker, strconv.Itoa(s.Index), s.Name, s.CreatedAt.Local().Format(time.DateTime))
		}
		return t.Render(w)
	})
}

func runWalletUse(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	store, err := ctx.Storage.Load()
	if err != nil {
		return err
	}
	idx, err := resolveWallet(store, args[0])
	if err != nil {
		return err
	}
	if err := store.SetActive(idx); err != nil {
		return err
	}
	if err := ctx.Storage.Save(store); err != nil {
		return err
	}

	name := store.Wallets[idx].Name
	return ctx.Fmt.Result(map[string]any{"name": name, "index": idx}, func(w io.Writer) error {
		out(w, "Active wallet: %s (index %d)\n", name, idx)
		return nil
	})
}

func unlockChainIDs(ctx *CommandContext) ([]chain.ID, error) {
	if strings.TrimSpace(unlockChains) != "" {
		return chain.ParseList(unlockChains)
	}
	return ctx.Cfg.ChainIDs()
}

type unlockedAddress struct {
	Chain   chain.ID `json:"chain"`
	Address string   `json:"address"`
}

func runWalletUnlock(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	store, err := ctx.Storage.Load()
	if err != nil {
		return err
	}
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	idx, err := resolveWallet(store, arg)
	if err != nil {
		return err
	}
	ids, err := unlockChainIDs(ctx)
	if err != nil {
		return err
	}

	password, err := promptPasswordFn("Enter wallet password: ")
	if err != nil {
		return err
	}
	defer rusbycrypto.Zero(password)

	addrs, err := store.UnlockWallet(idx, password, ids, ctx.Options(unlockAccount, unlockIndex))
	if err != nil {
		ctx.Log.Error("unlock wallet %d: %v", idx, err)
		return err
	}
	ctx.Log.Debug("wallet %d unlocked for %d chains", idx, len(addrs))

	rows := make([]unlockedAddress, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, unlockedAddress{Chain: id, Address: addrs[id]})
	}

	return ctx.Fmt.Result(rows, func(w io.Writer) error {
		if !unlockQR {
			t := output.NewTable("CHAIN", "ADDRESS")
			for _, r := range rows {
				t.AddRow(string(r.Chain), r.Address)
			}
			return t.Render(w)
		}
		for _, r := range rows {
			out(w, "%s: %s\n", r.Chain, r.Address)
			if err := output.RenderQR(w, r.Address); err != nil {
				return fmt.Errorf("rendering QR: %w", err)
			}
		}
		return nil
	})
}

func runWalletXPub(cmd *cobra.Command, args []string) error {
	ctx := GetCmdContext(cmd)

	id, err := chain.Parse(xpubChain)
	if err != nil {
		return err
	}
	store, err := ctx.Storage.Load()
	if err != nil {
		return err
	}
	var arg string
	if len(args) > 0 {
		arg = args[0]
	}
	idx, err := resolveWallet(store, arg)
	if err != nil {
		return err
	}

	password, err := promptPasswordFn("Enter wallet password: ")
	if err != nil {
		return err
	}
	defer rusbycrypto.Zero(password)

	seed, err := store.OpenSeed(idx, password)
	if err != nil {
		return err
	}
	defer seed.Destroy()

	key, err := address.AccountXPub(seed.Bytes(), id, ctx.Options(xpubAccount, 0))
	if err != nil {
		return err
	}
	return ctx.Fmt.Result(key, func(w io.Writer) error {
		out(w, "%s account %s\n%s\n", key.Chain, key.Path, key.XPub)
		return nil
	})
}
