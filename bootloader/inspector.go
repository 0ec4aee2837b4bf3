package bootloader

import (
	"fmt"
	"os"

	"github.com/moffa90/go-ihex/ihex"
)

// Inspector runs firmware analyses on Intel HEX files.
//
// Inspector is safe for concurrent use after initialization.
type Inspector struct {
	config Config
}

// Report summarises a firmware file.
type Report struct {
	// Path is the inspected file
	Path string

	// ValidationErr is the first strict validation failure, nil if valid
	ValidationErr error

	// Bytes is the number of populated bytes in the image
	Bytes int

	// MinAddress and MaxAddress bound the image (zero for an empty image)
	MinAddress uint32
	MaxAddress uint32

	// Segments are the contiguous runs of the image, lowest first
	Segments []ihex.Segment

	// PageSize is the flash page size used for Pages
	PageSize uint32

	// Pages is the number of flash pages spanned
	Pages int

	// Version is the bootloader version, nil if none was found
	Version *Version

	// SignatureAddress is the address of the signature when Version is set
	SignatureAddress uint32
}

// Valid reports whether the file passed strict validation.
func (r *Report) Valid() bool {
	return r.ValidationErr == nil
}

// New creates a new Inspector with the given options.
//
// Example:
//
//	insp := bootloader.New(
//	    bootloader.WithPageSize(1024),
//	    bootloader.WithLogger(myLogger),
//	)
func New(opts ...Option) *Inspector {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Inspector{
		config: cfg,
	}
}

// PageSize returns the configured flash page size.
func (i *Inspector) PageSize() uint32 {
	return i.config.PageSize
}

// Validate strictly validates the file at path. See ihex.ValidateReader.
func (i *Inspector) Validate(path string) error {
	if err := ihex.Validate(path); err != nil {
		i.logError("validation failed", "path", path, "error", err)
		return err
	}

	i.logDebug("validation passed", "path", path)
	return nil
}

// FlashPagesUsed returns the number of flash pages spanned by the file at path.
// Returns a *ParseError if the file cannot be read or parsed.
func (i *Inspector) FlashPagesUsed(path string) (int, error) {
	img, err := i.load(path)
	if err != nil {
		return 0, err
	}

	pages, err := PagesUsed(img, i.config.PageSize)
	if err != nil {
		return 0, err
	}

	i.logDebug("flash usage",
		"path", path,
		"bytes", img.Len(),
		"page_size", i.config.PageSize,
		"pages", pages,
	)

	return pages, nil
}

// BootloaderVersion extracts the bootloader version from the file at path.
//
// Example:
//
//	ver, err := insp.BootloaderVersion("bootloader.hex")
//	if errors.Is(err, bootloader.ErrSignatureNotFound) {
//	    // not a bootloader image
//	}
func (i *Inspector) BootloaderVersion(path string) (Version, error) {
	img, err := i.load(path)
	if err != nil {
		return Version{}, err
	}

	return i.version(path, img)
}

// Inspect validates, rebuilds and analyses the file at path.
//
// Validation failures are recorded in the report rather than returned, since
// the permissive image can still be analysed. A missing signature leaves
// Report.Version nil. An error is returned only if the image cannot be
// rebuilt at all.
func (i *Inspector) Inspect(path string) (*Report, error) {
	report := &Report{
		Path:          path,
		ValidationErr: ihex.Validate(path),
		PageSize:      i.config.PageSize,
	}

	img, err := i.load(path)
	if err != nil {
		return nil, err
	}

	report.Bytes = img.Len()
	report.MinAddress, _ = img.MinAddress()
	report.MaxAddress, _ = img.MaxAddress()
	report.Segments = img.Segments()

	report.Pages, err = PagesUsed(img, i.config.PageSize)
	if err != nil {
		return nil, err
	}

	if sigAddr, ok := FindSignature(img, i.config.Signature); ok {
		if ver, err := versionAt(img, sigAddr, len(i.config.Signature)); err == nil {
			report.Version = &ver
			report.SignatureAddress = sigAddr
		} else {
			i.logDebug("signature without version", "path", path, "error", err)
		}
	}

	i.logInfo("inspected firmware",
		"path", path,
		"valid", report.Valid(),
		"bytes", report.Bytes,
		"segments", len(report.Segments),
		"pages", report.Pages,
	)

	return report, nil
}

// load rebuilds the memory image of the file at path.
func (i *Inspector) load(path string) (*ihex.Image, error) {
	img, err := ihex.Parse(path)
	if err != nil {
		i.logError("failed to load firmware", "path", path, "error", err)
		return nil, &ParseError{Path: path, Err: err}
	}
	return img, nil
}

func (i *Inspector) version(path string, img *ihex.Image) (Version, error) {
	sigAddr, ok := FindSignature(img, i.config.Signature)
	if !ok {
		i.logDebug("signature not found", "path", path, "bytes", img.Len())
		return Version{}, ErrSignatureNotFound
	}

	ver, err := versionAt(img, sigAddr, len(i.config.Signature))
	if err != nil {
		return Version{}, err
	}

	i.logDebug("bootloader version",
		"path", path,
		"signature_address", fmt.Sprintf("0x%08X", sigAddr),
		"major", fmt.Sprintf("0x%02X", ver.Major),
		"minor", fmt.Sprintf("0x%02X", ver.Minor),
	)

	return ver, nil
}

// logDebug logs a debug message if a logger is configured.
func (i *Inspector) logDebug(msg string, keysAndValues ...interface{}) {
	if i.config.Logger != nil {
		i.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (i *Inspector) logInfo(msg string, keysAndValues ...interface{}) {
	if i.config.Logger != nil {
		i.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (i *Inspector) logError(msg string, keysAndValues ...interface{}) {
	if i.config.Logger != nil {
		i.config.Logger.Error(msg, keysAndValues...)
	}
}

// FileExists reports whether path names a regular file that can be opened
// for reading.
func FileExists(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	return err == nil && !info.IsDir()
}

// CalculateFlashPagesUsed returns the number of flash pages of pageSize
// bytes spanned by the Intel HEX file at path.
// Returns a *ParseError if the file cannot be read or parsed, including
// when it has no EOF record.
//
// Example:
//
//	pages, err := bootloader.CalculateFlashPagesUsed("firmware.hex", 2048)
func CalculateFlashPagesUsed(path string, pageSize uint32) (int, error) {
	if pageSize == 0 {
		return 0, ErrInvalidPageSize
	}
	return New(WithPageSize(pageSize)).FlashPagesUsed(path)
}

// ExtractBootloaderVersion reads the bootloader version that follows
// BootSignature in the Intel HEX file at path.
//
// Example:
//
//	ver, err := bootloader.ExtractBootloaderVersion("bootloader.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("major=0x%02X minor=0x%02X\n", ver.Major, ver.Minor)
func ExtractBootloaderVersion(path string) (Version, error) {
	return New().BootloaderVersion(path)
}
