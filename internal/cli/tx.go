package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rusbywallet/rusby/internal/chain"
	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	"github.com/rusbywallet/rusby/internal/signer"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// maxRequestSize bounds a signing request read from a file or stdin.
const maxRequestSize = 1 << 20

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	txChain   string
	txRequest string
	txWallet  string
	txAccount uint32
	txIndex   uint32
	txMessage string

	timeNow = time.Now
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var (
	txCmd = &cobra.Command{
		Use:   "tx",
		Short: "Sign transactions and messages offline",
	}

	txSignCmd = &cobra.Command{
		Use:   "sign",
		Short: "Sign a transaction request",
		Long: `Sign a transaction described by a JSON request and print the raw bytes and
hash ready to broadcast. The request carries everything a node would
otherwise be asked for: UTXOs, nonce, fees, blockhash or sequence.

Example:
  rusby tx sign --chain ethereum --request tx.json
  cat utxos.json | rusby tx sign --chain bitcoin --request -`,
		Args: cobra.NoArgs,
		RunE: runTxSign,
	}

	txSignMessageCmd = &cobra.Command{
		Use:   "sign-message",
		Short: "Sign a message with personal_sign",
		Long: `Sign a message with the Ethereum key as personal_sign (EIP-191) does.

Example:
  rusby tx sign-message --message "hello"`,
		Args: cobra.NoArgs,
		RunE: runTxSignMessage,
	}
)

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txSignCmd, txSignMessageCmd)

	for _, c := range []*cobra.Command{txSignCmd, txSignMessageCmd} {
		c.Flags().StringVarP(&txWallet, "wallet", "w", "", "wallet name or index (default: active)")
		c.Flags().Uint32Var(&txAccount, "account", 0, "BIP44 account")
		c.Flags().Uint32Var(&txIndex, "index", 0, "address index")
	}

	txSignCmd.Flags().StringVarP(&txChain, "chain", "c", "", "chain id, alias or CAIP-2 id (required)")
	txSignCmd.Flags().StringVarP(&txRequest, "request", "r", "", "request JSON file, or - for stdin (required)")
	_ = txSignCmd.MarkFlagRequired("chain")
	_ = txSignCmd.MarkFlagRequired("request")

	txSignMessageCmd.Flags().StringVarP(&txMessage, "message", "m", "", "message to sign (required)")
	_ = txSignMessageCmd.MarkFlagRequired("message")
}

func readRequest(cmd *cobra.Command, path string) ([]byte, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path) //nolint:gosec // G304: path is chosen by the user
		if err != nil {
			return nil, walleterr.WithCause(walleterr.ErrNotFound, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(io.LimitReader(r, maxRequestSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading request: %w", err)
	}
	if len(data) > maxRequestSize {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": "request too large"})
	}
	return data, nil
}

// openSeed decrypts the seed of the chosen wallet. The caller destroys it.
func openSeed(ctx *CommandContext) (*rusbycrypto.SecureBytes, error) {
	store, err := ctx.Storage.Load()
	if err != nil {
		return nil, err
	}
	idx, err := resolveWallet(store, txWallet)
	if err != nil {
		return nil, err
	}

	password, err := promptPasswordFn("Enter wallet password: ")
	if err != nil {
		return nil, err
	}
	defer rusbycrypto.Zero(password)

	return store.OpenSeed(idx, password)
}

type signedOutput struct {
	Chain     chain.ID `json:"chain"`
	TxHash    string   `json:"tx_hash"`
	RawHex    string   `json:"raw_hex"`
	RawBase64 string   `json:"raw_base64"`
}

func runTxSign(cmd *cobra.Command, _ []string) error {
	ctx := GetCmdContext(cmd)

	data, err := readRequest(cmd, txRequest)
	if err != nil {
		return err
	}
	req, err := signer.DecodeRequest(txChain, data)
	if err != nil {
		return err
	}

	seed, err := openSeed(ctx)
	if err != nil {
		return err
	}
	defer seed.Destroy()

	tx, err := signer.New(ctx.Log).Sign(seed.Bytes(), req, ctx.Options(txAccount, txIndex))
	if err != nil {
		return err
	}

	result := signedOutput{
		Chain:     tx.ChainID,
		TxHash:    tx.TxHash,
		RawHex:    tx.RawHex(),
		RawBase64: encoding.Base64Encode(tx.RawBytes),
	}
	return ctx.Fmt.Result(result, func(w io.Writer) error {
		out(w, "Chain:   %s\n", result.Chain)
		out(w, "Tx hash: %s\n", result.TxHash)
		out(w, "Raw:     %s\n", result.RawHex)
		return nil
	})
}

func runTxSignMessage(cmd *cobra.Command, _ []string) error {
	ctx := GetCmdContext(cmd)

	seed, err := openSeed(ctx)
	if err != nil {
		return err
	}
	defer seed.Destroy()

	sig, err := signer.SignPersonalMessage(seed.Bytes(), []byte(txMessage), ctx.Options(txAccount, txIndex))
	if err != nil {
		return err
	}

	result := map[string]string{
		"address":   sig.Address,
		"signature": encoding.HexEncode0x(sig.Signature),
	}
	return ctx.Fmt.Result(result, func(w io.Writer) error {
		out(w, "Address:   %s\n", result["address"])
		out(w, "Signature: %s\n", result["signature"])
		return nil
	})
}
