package rusbycrypto_test

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rusbywallet/rusby/internal/rusbycrypto"
	walleterr "github.com/rusbywallet/rusby/pkg/errors"
)

func testPriv() []byte {
	return bytes.Repeat([]byte{0x01}, 32)
}

func TestSignRecoverable(t *testing.T) {
	t.Parallel()
	hash := rusbycrypto.SHA256([]byte("message"))

	sig, err := rusbycrypto.SignRecoverable(testPriv(), hash)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.LessOrEqual(t, sig[64], byte(1))

	compact := append([]byte{sig[64] + 27}, sig[:64]...)
	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	require.NoError(t, err)
	assert.Equal(t, secp256k1.PrivKeyFromBytes(testPriv()).PubKey().SerializeCompressed(), pub.SerializeCompressed())

	again, err := rusbycrypto.SignRecoverable(testPriv(), hash)
	require.NoError(t, err)
	assert.Equal(t, sig, again, "RFC 6979 signatures are deterministic")
}

func TestSignDER(t *testing.T) {
	t.Parallel()
	hash := rusbycrypto.SHA256([]byte("message"))

	der, err := rusbycrypto.SignDER(testPriv(), hash)
	require.NoError(t, err)
	assert.Equal(t, byte(0x30), der[0])

	parsed, err := btcecdsa.ParseDERSignature(der)
	require.NoError(t, err)
	assert.True(t, parsed.Verify(hash, secp256k1.PrivKeyFromBytes(testPriv()).PubKey()))
}

func TestSignSecp_RejectsBadInputs(t *testing.T) {
	t.Parallel()
	hash := make([]byte, 32)
	tests := []struct {
		name string
		priv []byte
		hash []byte
	}{
		{"short key", make([]byte, 31), hash},
		{"zero key", make([]byte, 32), hash},
		{"key above order", bytes.Repeat([]byte{0xff}, 32), hash},
		{"short hash", testPriv(), make([]byte, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := rusbycrypto.SignRecoverable(tt.priv, tt.hash)
			require.ErrorIs(t, err, walleterr.ErrCrypto)
			_, err = rusbycrypto.SignDER(tt.priv, tt.hash)
			require.ErrorIs(t, err, walleterr.ErrCrypto)
		})
	}
}

func TestSignEd25519(t *testing.T) {
	t.Parallel()
	msg := []byte("raw message bytes")
	sig, err := rusbycrypto.SignEd25519(testPriv(), msg)
	require.NoError(t, err)

	pub := ed25519.NewKeyFromSeed(testPriv()).Public().(ed25519.PublicKey)
	assert.True(t, ed25519.Verify(pub, msg, sig))

	_, err = rusbycrypto.SignEd25519(make([]byte, 64), msg)
	require.ErrorIs(t, err, walleterr.ErrCrypto)
}

func TestEd25519PublicKey(t *testing.T) {
	t.Parallel()
	pub, err := rusbycrypto.Ed25519PublicKey(testPriv())
	require.NoError(t, err)
	assert.Equal(t, []byte(ed25519.NewKeyFromSeed(testPriv()).Public().(ed25519.PublicKey)), pub)

	_, err = rusbycrypto.Ed25519PublicKey(nil)
	require.ErrorIs(t, err, walleterr.ErrCrypto)
}
