package rusbycrypto

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2SHA256 derives keyLen bytes from password and salt with
// PBKDF2-HMAC-SHA256. The caller owns the returned key and must wipe it.
func PBKDF2SHA256(password, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New)
}
