package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// MinPasswordLength is the shortest accepted encryption password.
const MinPasswordLength = 8

// Prompt hooks, replaced in tests.
//
//nolint:gochecknoglobals // test seams
var (
	promptPasswordFn    = promptPassword
	promptNewPasswordFn = promptNewPassword
	promptPassphraseFn  = promptPassphrase
	promptSeedFn        = promptSeedMaterial
)

//nolint:errcheck // prompts go to stderr
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

//nolint:errcheck // prompts go to stderr
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}

// promptPassword reads a password without echo. The caller wipes it.
func promptPassword(prompt string) ([]byte, error) {
	out(os.Stderr, "%s", prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd())) //nolint:gosec // G115: Fd() fits in int
	outln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return password, nil
}

// promptNewPassword reads and confirms a new password. The caller wipes it.
func promptNewPassword() ([]byte, error) {
	password, err := promptPasswordFn("Enter encryption password: ")
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		rusbycrypto.Zero(password)
		return nil, walleterr.WithSuggestion(walleterr.ErrInvalidInput,
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	confirm, err := promptPasswordFn("Confirm password: ")
	if err != nil {
		rusbycrypto.Zero(password)
		return nil, err
	}
	defer rusbycrypto.Zero(confirm)

	if !bytes.Equal(password, confirm) {
		rusbycrypto.Zero(password)
		return nil, walleterr.WithSuggestion(walleterr.ErrInvalidInput, "passwords do not match")
	}
	return password, nil
}

// promptPassphrase reads an optional BIP39 passphrase.
func promptPassphrase() (string, error) {
	outln(os.Stderr, "BIP39 passphrase (optional). Losing it means losing the wallet.")
	passphrase, err := promptPasswordFn("Enter passphrase: ")
	if err != nil {
		return "", err
	}
	defer rusbycrypto.Zero(passphrase)
	if len(passphrase) == 0 {
		return "", nil
	}

	confirm, err := promptPasswordFn("Confirm passphrase: ")
	if err != nil {
		return "", err
	}
	defer rusbycrypto.Zero(confirm)

	if !bytes.Equal(passphrase, confirm) {
		return "", walleterr.WithSuggestion(walleterr.ErrInvalidInput, "passphrases do not match")
	}
	return string(passphrase), nil
}

// promptSeedMaterial reads one line holding a mnemonic or a hex seed.
func promptSeedMaterial() (string, error) {
	outln(os.Stderr, "Enter your mnemonic phrase or 64-byte hex seed on one line:")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", walleterr.WithSuggestion(walleterr.ErrInvalidInput, "no input provided")
	}
	return strings.TrimSpace(line), nil
}
