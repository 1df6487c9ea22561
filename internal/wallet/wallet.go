package wallet

import (
	"regexp"

	"github.com/mrz1836/go-sanitize"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// MaxNameLength bounds wallet names.
const MaxNameLength = 64

var (
	// ErrInvalidWalletName indicates the wallet name is invalid.
	ErrInvalidWalletName = walleterr.WithSuggestion(walleterr.ErrInvalidInput,
		"wallet name must be 1-64 alphanumeric characters, underscores, or hyphens")

	walletNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)
)

// ValidateWalletName checks if a wallet name is valid.
func ValidateWalletName(name string) error {
	if !walletNameRegex.MatchString(name) {
		return ErrInvalidWalletName
	}
	return nil
}

// SuggestWalletName returns a valid name close to name, or "" when
// nothing usable is left after sanitizing.
func SuggestWalletName(name string) string {
	suggested := sanitize.PathName(name)
	if len(suggested) > MaxNameLength {
		suggested = suggested[:MaxNameLength]
	}
	return suggested
}
