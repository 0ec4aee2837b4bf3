package ihex

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Parse rebuilds the memory image of the Intel HEX file at path.
// Returns the image or an error if the file cannot be read or parsed.
//
// Example:
//
//	img, err := ihex.Parse("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Bytes: %d\n", img.Len())
func Parse(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader rebuilds a memory image from Intel HEX text read from r.
//
// Parsing is permissive about content: empty lines and lines that do not
// start with ':' are skipped, and a data record that writes an address
// already written replaces the earlier byte. Record lines themselves must
// decode cleanly. Processing stops at the first EOF record; if none is
// found the parse fails and no image is returned.
//
// Example:
//
//	data := strings.NewReader(":0100000055AA\n:00000001FF\n")
//	img, err := ihex.ParseReader(data)
func ParseReader(r io.Reader) (*Image, error) {
	scanner := bufio.NewScanner(r)

	mem := make(map[uint32]byte)
	var extended uint32
	sawEOF := false

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := trimLine(scanner.Text())

		// Skip anything that is not a record
		if line == "" || line[0] != StartCode {
			continue
		}

		rec, err := DecodeRecord(line)
		if err != nil {
			return nil, lineErr(lineNum, err)
		}

		switch rec.Type {
		case RecordData:
			base := extended<<16 | uint32(rec.Address)
			for i, b := range rec.Data {
				mem[base+uint32(i)] = b
			}
		case RecordExtendedLinearAddress:
			upper, err := rec.ExtendedLinearAddress()
			if err != nil {
				return nil, lineErr(lineNum, err)
			}
			extended = uint32(upper)
		case RecordEndOfFile:
			sawEOF = true
		default:
			// 0x02, 0x03 and 0x05 have no effect on the image
		}

		if sawEOF {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if !sawEOF {
		return nil, ErrMissingEOF
	}

	return newImage(mem), nil
}
