//go:build windows

package rusbycrypto

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// lockMemory pins buf in the working set so key material is never paged out.
func lockMemory(buf []byte) bool {
	if len(buf) == 0 {
		return false
	}
	return windows.VirtualLock(uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf))) == nil
}

// unlockMemory releases a region pinned by lockMemory.
func unlockMemory(buf []byte) {
	if len(buf) == 0 {
		return
	}
	_ = windows.VirtualUnlock(uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
}
