package ihex

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Validate strictly checks the Intel HEX file at path.
// Returns nil if the file is valid, otherwise the first violation found.
//
// Example:
//
//	if err := ihex.Validate("firmware.hex"); err != nil {
//	    fmt.Printf("invalid firmware: %v\n", err)
//	}
func Validate(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ValidateReader(f)
}

// ValidateReader strictly checks Intel HEX text read from r and stops at
// the first violation.
//
// Each line is checked in this order:
//  1. Record syntax: start code, hex digits, minimum and declared length
//  2. Checksum
//  3. Record type range
//  4. EOF cardinality (only one EOF record is allowed)
//  5. Overlap: no data byte may land on an address written earlier
//  6. Extended linear address update (2 data bytes required)
//
// Unlike ParseReader, every line must be a record, and lines after the EOF
// record are still checked. A file without an EOF record is invalid.
func ValidateReader(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	var extended uint32
	eofSeen := false
	written := make(map[uint32]struct{})

	lineNum := 0
	for scanner.Scan() {
		lineNum++

		rec, err := DecodeRecord(scanner.Text())
		if err != nil {
			return lineErr(lineNum, err)
		}

		switch rec.Type {
		case RecordEndOfFile:
			if eofSeen {
				return lineErr(lineNum, ErrMultipleEOF)
			}
			eofSeen = true
		case RecordData:
			base := extended<<16 | uint32(rec.Address)
			for i := range rec.Data {
				addr := base + uint32(i)
				if _, ok := written[addr]; ok {
					return &OverlapError{Line: lineNum, Address: addr}
				}
				written[addr] = struct{}{}
			}
		case RecordExtendedLinearAddress:
			upper, err := rec.ExtendedLinearAddress()
			if err != nil {
				return lineErr(lineNum, err)
			}
			extended = uint32(upper)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if !eofSeen {
		return ErrMissingEOF
	}

	return nil
}
