// Package bootloader analyses Intel HEX firmware images for flashing.
//
// # Overview
//
// This package works on the memory image rebuilt by package ihex:
//   - Counting the flash pages an image spans
//   - Locating the bootloader build signature
//   - Reading the bootloader version stored after the signature
//
// # Basic Usage
//
// The package level helpers cover the common cases:
//
//	pages, err := bootloader.CalculateFlashPagesUsed("firmware.hex", 2048)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ver, err := bootloader.ExtractBootloaderVersion("bootloader.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Bootloader %s (major=0x%02X minor=0x%02X)\n", ver, ver.Major, ver.Minor)
//
// # Configuration Options
//
// Use an Inspector to change the page size or signature, or to log:
//
//	insp := bootloader.New(
//	    bootloader.WithPageSize(1024),
//	    bootloader.WithSignature(customSignature),
//	    bootloader.WithLogger(myLogger),
//	)
//
//	report, err := insp.Inspect("firmware.hex")
//
// # Logging
//
// Integrate with any logging framework:
//
//	type MyLogger struct {
//	    logger *log.Logger
//	}
//
//	func (l *MyLogger) Debug(msg string, kv ...interface{}) {
//	    l.logger.Println("DEBUG:", msg, kv)
//	}
//
//	func (l *MyLogger) Info(msg string, kv ...interface{}) {
//	    l.logger.Println("INFO:", msg, kv)
//	}
//
//	func (l *MyLogger) Error(msg string, kv ...interface{}) {
//	    l.logger.Println("ERROR:", msg, kv)
//	}
//
//	insp := bootloader.New(bootloader.WithLogger(&MyLogger{...}))
//
// # Signature Layout
//
// The bootloader linker script places a 16 byte signature (BootSignature)
// followed by the version:
//
//	[signature(16)][major(1)][minor(1)][major+minor(1)]
//
// Major is a binary number (0x06 for "6"), minor is an ASCII character
// (0x68 for 'h'). The trailing sum byte is not checked.
//
// # Error Handling
//
// The package provides structured error types:
//   - ParseError: the file could not be opened or rebuilt
//   - VersionMissingError: signature found but version bytes absent
//   - ErrSignatureNotFound: no complete signature in the image
//   - ErrInvalidPageSize: page size of zero
package bootloader
