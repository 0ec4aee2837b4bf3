package ihex

// Checksum computes the Intel HEX checksum for the given record bytes
// (byte count, address high, address low, record type and data).
//
// The checksum is the 2's complement of the 8-bit sum, so that the sum of
// all record bytes including the checksum is zero.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	// Return 2's complement: invert and add 1
	return ^sum + 1
}

// sumIsZero reports whether the 8-bit sum of a complete record, including
// its checksum byte, is zero.
func sumIsZero(record []byte) bool {
	var sum byte
	for _, b := range record {
		sum += b
	}
	return sum == 0
}
