package rusbycrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

const (
	// KeySize is the AES-256 key length.
	KeySize = 32

	// NonceSize is the AES-GCM nonce length.
	NonceSize = 12

	// TagSize is the AES-GCM authentication tag length.
	TagSize = 16
)

// newGCM builds an AES-256-GCM cipher and wipes key once the cipher holds
// its own expanded copy.
func newGCM(key []byte) (cipher.AEAD, error) {
	defer Zero(key)

	if len(key) != KeySize {
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "key", KeySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrCrypto, fmt.Errorf("creating cipher: %w", err))
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, walleterr.WithCause(walleterr.ErrCrypto, fmt.Errorf("creating GCM: %w", err))
	}
	return gcm, nil
}

// SealGCM encrypts plaintext under key with the given 12-byte nonce and
// returns ciphertext with the 16-byte tag appended. key is wiped.
func SealGCM(key, nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		Zero(key)
		return nil, walleterr.LengthMismatch(walleterr.ErrCrypto, "nonce", NonceSize, len(nonce))
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// OpenGCM authenticates and decrypts ciphertext. Any failure, including a
// bad tag, is reported as the opaque password error. key is wiped.
func OpenGCM(key, nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != NonceSize || len(ciphertext) < TagSize {
		Zero(key)
		return nil, walleterr.ErrPassword
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, walleterr.ErrPassword
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, walleterr.ErrPassword
	}
	return plaintext, nil
}
