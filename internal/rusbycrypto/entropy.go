package rusbycrypto

import (
	"crypto/rand"
	"fmt"
	"io"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// Reader is the source of salts, nonces and mnemonic entropy.
// Tests swap it for a deterministic or failing reader.
//
//nolint:gochecknoglobals // Package-level RNG is required for testability
var Reader io.Reader = rand.Reader

// RandomBytes returns n cryptographically secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(Reader, b); err != nil {
		return nil, walleterr.WithCause(walleterr.ErrCrypto, fmt.Errorf("reading random bytes: %w", err))
	}
	return b, nil
}

// SecureRandomBytes fills a new secret buffer with n random bytes.
func SecureRandomBytes(n int) (*SecureBytes, error) {
	sb := NewSecureBytes(n)
	if _, err := io.ReadFull(Reader, sb.Bytes()); err != nil {
		sb.Destroy()
		return nil, walleterr.WithCause(walleterr.ErrCrypto, fmt.Errorf("reading random bytes: %w", err))
	}
	return sb, nil
}
