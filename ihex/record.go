package ihex

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Constants for Intel HEX record parsing.
const (
	// StartCode is the character every record line begins with
	StartCode = ':'

	// MinimumRecordLength is the length in characters of a record with no data
	// (start code + byte count + address + record type + checksum)
	MinimumRecordLength = 11

	// RecordHeaderLength is the number of characters before the data field
	RecordHeaderLength = 9

	// ChecksumFieldLength is the number of characters of the checksum field
	ChecksumFieldLength = 2

	// ExtendedAddressDataSize is the data size of an extended linear address record
	ExtendedAddressDataSize = 2
)

// RecordType identifies the kind of an Intel HEX record.
type RecordType byte

// Record types defined by the Intel HEX format.
const (
	RecordData                   RecordType = 0x00
	RecordEndOfFile              RecordType = 0x01
	RecordExtendedSegmentAddress RecordType = 0x02
	RecordStartSegmentAddress    RecordType = 0x03
	RecordExtendedLinearAddress  RecordType = 0x04
	RecordStartLinearAddress     RecordType = 0x05
)

func (t RecordType) String() string {
	switch t {
	case RecordData:
		return "data"
	case RecordEndOfFile:
		return "end of file"
	case RecordExtendedSegmentAddress:
		return "extended segment address"
	case RecordStartSegmentAddress:
		return "start segment address"
	case RecordExtendedLinearAddress:
		return "extended linear address"
	case RecordStartLinearAddress:
		return "start linear address"
	default:
		return fmt.Sprintf("unknown (0x%02X)", byte(t))
	}
}

// Record is a single decoded Intel HEX line.
type Record struct {
	// ByteCount is the number of data bytes declared by the record
	ByteCount uint8

	// Address is the low 16 bits of the target address
	Address uint16

	// Type is the record type
	Type RecordType

	// Data is the record payload (len(Data) == ByteCount)
	Data []byte

	// Checksum is the record checksum as read from the line
	Checksum uint8
}

// ExtendedLinearAddress returns the upper 16 address bits carried by an
// extended linear address record.
func (r *Record) ExtendedLinearAddress() (uint16, error) {
	if r.Type != RecordExtendedLinearAddress {
		return 0, fmt.Errorf("record type %s carries no extended linear address", r.Type)
	}
	if len(r.Data) != ExtendedAddressDataSize {
		return 0, fmt.Errorf("%w: got %d", ErrBadExtendedAddress, len(r.Data))
	}
	return uint16(r.Data[0])<<8 | uint16(r.Data[1]), nil
}

// DecodeRecord decodes and checks a single record line.
//
// Trailing whitespace and line terminators are ignored. Checks are applied
// in order: start code, hex digits, minimum length, declared length,
// checksum and record type. The first failing check is returned.
//
// Example:
//
//	rec, err := ihex.DecodeRecord(":0400100001020304E2")
//	// rec.Address == 0x0010, rec.Data == []byte{1, 2, 3, 4}
func DecodeRecord(line string) (*Record, error) {
	line = trimLine(line)

	if line == "" || line[0] != StartCode {
		return nil, ErrMissingColon
	}

	for i := 1; i < len(line); i++ {
		if !isHexDigit(line[i]) {
			return nil, fmt.Errorf("%w %q at column %d", ErrInvalidHexChar, line[i], i+1)
		}
	}

	if len(line) < MinimumRecordLength {
		return nil, fmt.Errorf("%w: got %d characters, minimum is %d",
			ErrLineTooShort, len(line), MinimumRecordLength)
	}

	byteCount := hexByte(line, 1)
	expectedLen := RecordHeaderLength + 2*int(byteCount) + ChecksumFieldLength
	if len(line) != expectedLen {
		return nil, fmt.Errorf("%w: got %d characters, expected %d (byte count %d)",
			ErrLengthMismatch, len(line), expectedLen, byteCount)
	}

	// Length is now odd, so everything after the start code decodes cleanly
	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHexChar, err)
	}

	checksum := raw[len(raw)-1]
	if !sumIsZero(raw) {
		return nil, fmt.Errorf("%w: got 0x%02X, expected 0x%02X",
			ErrChecksumMismatch, checksum, Checksum(raw[:len(raw)-1]))
	}

	recordType := RecordType(raw[3])
	if recordType > RecordStartLinearAddress {
		return nil, fmt.Errorf("%w 0x%02X", ErrUnknownRecordType, byte(recordType))
	}

	rec := &Record{
		ByteCount: byteCount,
		Address:   uint16(raw[1])<<8 | uint16(raw[2]),
		Type:      recordType,
		Data:      make([]byte, byteCount),
		Checksum:  checksum,
	}
	copy(rec.Data, raw[4:len(raw)-1])

	return rec, nil
}

// trimLine removes trailing spaces, tabs and line terminators.
func trimLine(line string) string {
	return strings.TrimRight(line, " \t\r\n")
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// hexByte decodes the two hex digits at pos. The caller has already checked
// that they are valid.
func hexByte(s string, pos int) byte {
	return fromHexDigit(s[pos])<<4 | fromHexDigit(s[pos+1])
}

func fromHexDigit(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}
