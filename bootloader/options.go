package bootloader

// DefaultPageSize is the default flash page size in bytes (STM32 2 KiB pages).
const DefaultPageSize = 2048

// Config holds the inspector configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger

	// PageSize is the flash page size in bytes
	PageSize uint32

	// Signature is the byte pattern that precedes the bootloader version
	Signature []byte
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	sig := BootSignature()
	return Config{
		PageSize:  DefaultPageSize,
		Signature: sig[:],
	}
}

// Option is a functional option for configuring the Inspector.
type Option func(*Config)

// WithLogger sets a logger for the inspector operations.
//
// Example:
//
//	insp := bootloader.New(bootloader.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithPageSize sets the flash page size in bytes.
// Default is 2048. A size of zero is ignored.
//
// Example:
//
//	insp := bootloader.New(bootloader.WithPageSize(1024))
func WithPageSize(size uint32) Option {
	return func(c *Config) {
		if size > 0 {
			c.PageSize = size
		}
	}
}

// WithSignature replaces the signature searched for before the version bytes.
// Default is BootSignature. An empty signature is ignored.
//
// Example:
//
//	insp := bootloader.New(bootloader.WithSignature([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
func WithSignature(sig []byte) Option {
	return func(c *Config) {
		if len(sig) > 0 {
			c.Signature = append([]byte(nil), sig...)
		}
	}
}
