package evm

import (
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

// PersonalMessageHash is the EIP-191 version 0x45 digest:
// Keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg).
func PersonalMessageHash(msg []byte) []byte {
	return accounts.TextHash(msg)
}

// SignPersonalMessage returns the 65-byte personal_sign signature r||s||v
// with v in {27, 28}, the form wallets return to dApps.
func SignPersonalMessage(priv, msg []byte) ([]byte, error) {
	sig, err := rusbycrypto.SignRecoverable(priv, PersonalMessageHash(msg))
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}

// RecoverPersonalSigner returns the checksummed address that produced sig
// over msg. v may be 0/1 or 27/28.
func RecoverPersonalSigner(msg, sig []byte) (string, error) {
	if len(sig) != rusbycrypto.RecoverableSigSize {
		return "", walleterr.LengthMismatch(walleterr.ErrCrypto, "signature", rusbycrypto.RecoverableSigSize, len(sig))
	}

	normalized := append([]byte(nil), sig...)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	if normalized[64] > 1 {
		return "", walleterr.WithDetails(walleterr.ErrCrypto, map[string]string{"reason": "invalid recovery id"})
	}

	pub, err := crypto.SigToPub(PersonalMessageHash(msg), normalized)
	if err != nil {
		return "", walleterr.WithCause(walleterr.ErrCrypto, err)
	}
	return ChecksumAddress(crypto.PubkeyToAddress(*pub).Bytes())
}
