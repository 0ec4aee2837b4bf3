package ihex

import (
	"errors"
	"fmt"
)

// Malformed record errors, returned by DecodeRecord.
var (
	// ErrMissingColon indicates an empty line or a line without the ':' start code
	ErrMissingColon = errors.New("does not start with ':'")

	// ErrInvalidHexChar indicates a non-hexadecimal character after the start code
	ErrInvalidHexChar = errors.New("invalid hex character")

	// ErrLineTooShort indicates a line shorter than the smallest possible record
	ErrLineTooShort = errors.New("line too short")

	// ErrLengthMismatch indicates a line whose length disagrees with its byte count
	ErrLengthMismatch = errors.New("incorrect line length")

	// ErrChecksumMismatch indicates that the record bytes do not sum to zero
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrUnknownRecordType indicates a record type outside 0x00-0x05
	ErrUnknownRecordType = errors.New("unknown record type")
)

// Structural errors, found by looking across records.
var (
	ErrMultipleEOF        = errors.New("multiple EOF records detected")
	ErrMissingEOF         = errors.New("missing EOF record")
	ErrOverlappingAddress = errors.New("overlapping data")
	ErrBadExtendedAddress = errors.New("extended linear address record must carry 2 data bytes")
)

// LineError attaches a 1-based line number to a record error.
type LineError struct {
	// Line is the 1-based line number in the input
	Line int

	// Err is the underlying error
	Err error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// OverlapError indicates that a data record writes an address already
// written by an earlier data record.
type OverlapError struct {
	Line    int
	Address uint32
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("line %d: overlapping data at address 0x%X", e.Line, e.Address)
}

func (e *OverlapError) Unwrap() error {
	return ErrOverlappingAddress
}

// IsMalformedRecord returns true if err was caused by a single record failing
// to decode.
func IsMalformedRecord(err error) bool {
	for _, target := range []error{
		ErrMissingColon,
		ErrInvalidHexChar,
		ErrLineTooShort,
		ErrLengthMismatch,
		ErrChecksumMismatch,
		ErrUnknownRecordType,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// lineErr wraps err with a line number.
func lineErr(line int, err error) error {
	return &LineError{Line: line, Err: err}
}
