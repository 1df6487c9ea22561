//go:build !windows

package rusbycrypto

import (
	"golang.org/x/sys/unix"
)

// lockMemory pins buf in RAM so key material is never written to swap.
// A failure (RLIMIT_MEMLOCK, unprivileged containers) leaves buf usable.
func lockMemory(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	return unix.Mlock(buf) == nil
}

// unlockMemory releases a region pinned by lockMemory.
func unlockMemory(buf []byte) {
	if len(buf) == 0 {
		return
	}
	_ = unix.Munlock(buf)
}
