package bootloader

import (
	"fmt"
	"math"

	"github.com/moffa90/go-ihex/ihex"
)

// SignatureLength is the length of the bootloader build signature in bytes.
const SignatureLength = 16

// Offsets of the version fields relative to the end of the signature.
const (
	majorOffset = 0
	minorOffset = 1
)

// bootSignature is defined by the bootloader linker script.
var bootSignature = [SignatureLength]byte{
	0x20, 0x0F, 0xF9, 0xA7, 0x17, 0x7D, 0x4E, 0x99,
	0xDB, 0x53, 0xA2, 0x72, 0xE7, 0xC3, 0xE1, 0xFA,
}

// BootSignature returns the bootloader build signature.
func BootSignature() [SignatureLength]byte {
	return bootSignature
}

// Version is the bootloader version stored after the signature.
type Version struct {
	// Major is a binary value, e.g. 0x06 for "6"
	Major byte

	// Minor is an ASCII character code, e.g. 0x68 for 'h'
	Minor byte
}

// String renders the version as major number followed by the minor
// character, e.g. "6h". A non-printable minor is rendered as a number.
func (v Version) String() string {
	if v.Minor > ' ' && v.Minor < 0x7F {
		return fmt.Sprintf("%d%c", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// FindSignature returns the lowest address at which pattern occurs as a run
// of contiguous, populated addresses in img.
func FindSignature(img *ihex.Image, pattern []byte) (addr uint32, found bool) {
	if img == nil || len(pattern) == 0 || img.Len() < len(pattern) {
		return 0, false
	}

	// last start address whose run fits below the top of the address space
	lastStart := math.MaxUint32 - uint32(len(pattern)-1)

	img.Range(func(start uint32, b byte) bool {
		if start > lastStart {
			return false
		}
		if b != pattern[0] {
			return true
		}
		for i := 1; i < len(pattern); i++ {
			v, ok := img.Get(start + uint32(i))
			if !ok || v != pattern[i] {
				return true
			}
		}
		addr, found = start, true
		return false
	})

	return addr, found
}

// ReadVersion locates pattern in img and reads the two version bytes that
// follow it.
//
// Example:
//
//	sig := bootloader.BootSignature()
//	ver, err := bootloader.ReadVersion(img, sig[:])
func ReadVersion(img *ihex.Image, pattern []byte) (Version, error) {
	sigAddr, ok := FindSignature(img, pattern)
	if !ok {
		return Version{}, ErrSignatureNotFound
	}
	return versionAt(img, sigAddr, len(pattern))
}

// versionAt reads the version bytes after a signature of sigLen bytes at
// sigAddr. The major+minor sum byte that follows them is not checked.
func versionAt(img *ihex.Image, sigAddr uint32, sigLen int) (Version, error) {
	versionAddr := sigAddr + uint32(sigLen)

	major, ok := img.Get(versionAddr + majorOffset)
	if !ok {
		return Version{}, &VersionMissingError{SignatureAddress: sigAddr, Address: versionAddr + majorOffset}
	}

	minor, ok := img.Get(versionAddr + minorOffset)
	if !ok {
		return Version{}, &VersionMissingError{SignatureAddress: sigAddr, Address: versionAddr + minorOffset}
	}

	return Version{Major: major, Minor: minor}, nil
}
