// Package ihex provides decoding, validation and memory reconstruction for
// Intel HEX firmware files.
//
// # Intel HEX File Format
//
// An Intel HEX file is line oriented ASCII. Every record starts with a colon
// followed by hex-encoded fields:
//
//	:[ByteCount(2)][Address(4)][RecordType(2)][Data(2*ByteCount)][Checksum(2)]
//
// Example data record:
//
//	:0400100001020304E2
//	  04 = Byte Count (4 data bytes)
//	  0010 = Address (low 16 bits of the target address)
//	  00 = Record Type (data)
//	  01020304 = Data
//	  E2 = Checksum (two's complement of the sum of all other bytes)
//
// Record types understood by this package:
//
//	0x00 = Data
//	0x01 = End of File
//	0x04 = Extended Linear Address (upper 16 bits of following data addresses)
//
// Types 0x02, 0x03 and 0x05 are accepted syntactically but have no effect on
// the reconstructed image.
//
// # Usage
//
// Rebuild the memory image of a file:
//
//	img, err := ihex.Parse("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Bytes: %d\n", img.Len())
//	for _, seg := range img.Segments() {
//	    fmt.Printf("0x%08X: %d bytes\n", seg.Address, len(seg.Data))
//	}
//
// Strictly validate a file:
//
//	if err := ihex.Validate("firmware.hex"); err != nil {
//	    fmt.Println("invalid:", err)
//	}
//
// # Error Handling
//
// Parse is permissive: lines that do not start with ':' are skipped and data
// records may overwrite each other. Validate is strict and reports the first
// violation it finds, including:
//   - Malformed records (start code, hex digits, length, checksum, type)
//   - Multiple or missing EOF records
//   - Overlapping data addresses
//
// Record errors are wrapped in a *LineError carrying the 1-based line number
// and can be matched with errors.Is against the exported Err* values.
package ihex
