package bootloader

import (
	"errors"
	"fmt"
)

var (
	// ErrSignatureNotFound indicates that no complete bootloader signature is in the image
	ErrSignatureNotFound = errors.New("bootloader signature not found")

	// ErrVersionMissing indicates that the version bytes after the signature are absent
	ErrVersionMissing = errors.New("bootloader version bytes missing")

	// ErrInvalidPageSize indicates a flash page size of zero
	ErrInvalidPageSize = errors.New("flash page size must be greater than zero")
)

// ParseError indicates that a firmware file could not be opened or its
// memory image could not be rebuilt.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to read or parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// VersionMissingError indicates that the signature was found but the
// version bytes following it are not in the image.
type VersionMissingError struct {
	SignatureAddress uint32
	Address          uint32
}

func (e *VersionMissingError) Error() string {
	return fmt.Sprintf("bootloader version bytes missing at 0x%08X (signature at 0x%08X)",
		e.Address, e.SignatureAddress)
}

func (e *VersionMissingError) Unwrap() error {
	return ErrVersionMissing
}
