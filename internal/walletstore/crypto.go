// Package walletstore encrypts seeds under a password and keeps the
// ordered list of wallets with an active selection.
package walletstore

import (
	"sync/atomic"

	"github.com/rusbywallet/rusby/internal/encoding"
	"github.com/rusbywallet/rusby/internal/metrics"
	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	// DefaultIterations is the PBKDF2-HMAC-SHA256 work factor.
	DefaultIterations = 600_000

	// SaltSize is the random PBKDF2 salt length.
	SaltSize = 32
)

var iterations atomic.Int64

func init() {
	iterations.Store(DefaultIterations)
}

// SetIterations changes the PBKDF2 work factor. Seeds encrypted under one
// value only decrypt under the same value; tests use it to go fast.
func SetIterations(n int) {
	if n < 1 {
		n = DefaultIterations
	}
	iterations.Store(int64(n))
}

// EncryptedSeed is a seed sealed with AES-256-GCM under a PBKDF2 key.
type EncryptedSeed struct {
	Salt       encoding.ByteArray `json:"salt"`
	Nonce      encoding.ByteArray `json:"nonce"`
	Ciphertext encoding.ByteArray `json:"ciphertext"`
}

func deriveKey(password, salt []byte) []byte {
	return rusbycrypto.PBKDF2SHA256(password, salt, int(iterations.Load()), rusbycrypto.KeySize)
}

// Encrypt seals seed under password with a fresh salt and nonce. The
// derived key is wiped once the cipher is built.
func Encrypt(seed, password []byte) (*EncryptedSeed, error) {
	if len(seed) == 0 {
		return nil, walleterr.WithDetails(walleterr.ErrInvalidInput, map[string]string{"reason": "empty seed"})
	}

	salt, err := rusbycrypto.RandomBytes(SaltSize)
	if err != nil {
		return nil, err
	}
	nonce, err := rusbycrypto.RandomBytes(rusbycrypto.NonceSize)
	if err != nil {
		return nil, err
	}

	ciphertext, err := rusbycrypto.SealGCM(deriveKey(password, salt), nonce, seed)
	if err != nil {
		return nil, err
	}
	return &EncryptedSeed{Salt: salt, Nonce: nonce, Ciphertext: ciphertext}, nil
}

// Decrypt opens enc with password. A wrong password and a damaged record
// both return the opaque password error.
func Decrypt(enc *EncryptedSeed, password []byte) (seed *rusbycrypto.SecureBytes, err error) {
	defer func() { metrics.Global.RecordUnlock(err) }()

	if enc == nil || len(enc.Salt) == 0 {
		return nil, walleterr.ErrPassword
	}

	plaintext, err := rusbycrypto.OpenGCM(deriveKey(password, enc.Salt), enc.Nonce, enc.Ciphertext)
	if err != nil {
		return nil, walleterr.ErrPassword
	}
	return rusbycrypto.TakeSecureBytes(plaintext), nil
}
