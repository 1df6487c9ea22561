package rusbycrypto

import (
	"testing"
)

func BenchmarkSealGCM(b *testing.B) {
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	plaintext := make([]byte, 64)
	k := make([]byte, KeySize)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(k, key)
		_, _ = SealGCM(k, nonce, plaintext)
	}
}

func BenchmarkOpenGCM(b *testing.B) {
	key := make([]byte, KeySize)
	nonce := make([]byte, NonceSize)
	k := make([]byte, KeySize)
	copy(k, key)
	sealed, _ := SealGCM(k, nonce, make([]byte, 64))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(k, key)
		_, _ = OpenGCM(k, nonce, sealed)
	}
}

func BenchmarkPBKDF2SHA256_1000(b *testing.B) {
	password := []byte("correct horse battery")
	salt := make([]byte, 16)
	for i := 0; i < b.N; i++ {
		_ = PBKDF2SHA256(password, salt, 1000, KeySize)
	}
}

func BenchmarkRandomBytes32(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = RandomBytes(32)
	}
}

func BenchmarkSecureBytesLifecycle(b *testing.B) {
	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sb := SecureBytesFromSlice(data)
		sb.Destroy()
	}
}

func BenchmarkKeccak256(b *testing.B) {
	data := make([]byte, 64)
	for i := 0; i < b.N; i++ {
		_ = Keccak256(data)
	}
}
