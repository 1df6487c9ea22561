// Package rusbycrypto provides the cryptographic primitives shared by every
// chain: hashes, HMAC, PBKDF2, AES-256-GCM, secure random bytes, and a
// locked, self-wiping buffer for seeds and private keys.
package rusbycrypto

import (
	"runtime"
	"sync"
)

// SecureBytes holds a seed or private key. The buffer is mlocked when the
// platform allows it and is zeroed by Destroy, which every owner defers.
type SecureBytes struct {
	data   []byte
	locked bool
	mu     sync.Mutex
}

// NewSecureBytes allocates a zeroed secret buffer of the given size.
func NewSecureBytes(size int) *SecureBytes {
	sb := &SecureBytes{data: make([]byte, size)}
	sb.locked = lockMemory(sb.data)

	// Backstop for owners that forget to call Destroy.
	runtime.SetFinalizer(sb, func(s *SecureBytes) {
		s.Destroy()
	})

	return sb
}

// SecureBytesFromSlice copies data into a new secret buffer.
// The caller still owns data and is responsible for wiping it.
func SecureBytesFromSlice(data []byte) *SecureBytes {
	sb := NewSecureBytes(len(data))
	copy(sb.data, data)
	return sb
}

// TakeSecureBytes moves data into a new secret buffer and wipes data.
func TakeSecureBytes(data []byte) *SecureBytes {
	sb := SecureBytesFromSlice(data)
	Zero(data)
	return sb
}

// Bytes returns the underlying slice, or nil once destroyed.
// The slice must not be retained past Destroy.
func (s *SecureBytes) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Clone returns an independent copy that must be destroyed separately.
func (s *SecureBytes) Clone() *SecureBytes {
	return SecureBytesFromSlice(s.Bytes())
}

// IsLocked reports whether the buffer is mlocked.
func (s *SecureBytes) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Len returns the buffer length, or 0 once destroyed.
func (s *SecureBytes) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Destroy zeroes and unlocks the buffer. Safe to call multiple times and
// on a nil receiver.
func (s *SecureBytes) Destroy() {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	Zero(s.data)

	if s.locked {
		unlockMemory(s.data)
		s.locked = false
	}

	s.data = nil
	runtime.SetFinalizer(s, nil)
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}

// ZeroAll overwrites every buffer with zeros.
func ZeroAll(bufs ...[]byte) {
	for _, b := range bufs {
		Zero(b)
	}
}
