package bootloader

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-ihex/ihex"
)

// MockLogger records log calls for testing
type MockLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *MockLogger) Debug(msg string, kv ...interface{}) { l.record("debug", msg, kv) }
func (l *MockLogger) Info(msg string, kv ...interface{})  { l.record("info", msg, kv) }
func (l *MockLogger) Error(msg string, kv ...interface{}) { l.record("error", msg, kv) }

func (l *MockLogger) record(level, msg string, kv []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf("%s: %s %v", level, msg, kv))
}

func (l *MockLogger) Contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

// hexRecord builds a record line with a correct checksum.
func hexRecord(addr uint16, typ ihex.RecordType, data ...byte) string {
	raw := append([]byte{byte(len(data)), byte(addr >> 8), byte(addr), byte(typ)}, data...)
	raw = append(raw, ihex.Checksum(raw))
	return ":" + strings.ToUpper(hex.EncodeToString(raw))
}

// writeHex writes record lines to a temporary file and returns its path.
func writeHex(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "firmware.hex")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// bootloaderHex is a bootloader image at 0x08000000 with the signature at
// 0x08008000, followed by version 6h and its sum byte.
func bootloaderHex(t *testing.T) string {
	t.Helper()
	sig := BootSignature()
	return writeHex(t,
		hexRecord(0x0000, ihex.RecordExtendedLinearAddress, 0x08, 0x00),
		hexRecord(0x0000, ihex.RecordData, 0x00, 0x50, 0x00, 0x20),
		hexRecord(0x8000, ihex.RecordData, sig[:]...),
		hexRecord(0x8010, ihex.RecordData, 0x06, 0x68, 0x6E),
		hexRecord(0x0000, ihex.RecordStartLinearAddress, 0x08, 0x00, 0x01, 0x01),
		hexRecord(0x0000, ihex.RecordEndOfFile),
	)
}

func TestHexRecordHelper(t *testing.T) {
	assert.Equal(t, ":00000001FF", hexRecord(0, ihex.RecordEndOfFile))
	assert.Equal(t, ":0400100001020304E2", hexRecord(0x0010, ihex.RecordData, 1, 2, 3, 4))
}

func TestNew(t *testing.T) {
	insp := New()
	assert.Equal(t, uint32(DefaultPageSize), insp.PageSize())

	sig := BootSignature()
	assert.Equal(t, sig[:], insp.config.Signature)

	insp = New(WithPageSize(1024), WithPageSize(0))
	assert.Equal(t, uint32(1024), insp.PageSize())

	custom := []byte{0xDE, 0xAD}
	insp = New(WithSignature(custom), WithSignature(nil))
	custom[0] = 0x00
	assert.Equal(t, []byte{0xDE, 0xAD}, insp.config.Signature)
}

func TestBootloaderVersion(t *testing.T) {
	logger := &MockLogger{}
	insp := New(WithLogger(logger))

	ver, err := insp.BootloaderVersion(bootloaderHex(t))
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 0x06, Minor: 0x68}, ver)
	assert.True(t, logger.Contains("0x08008000"))
}

func TestBootloaderVersionFailures(t *testing.T) {
	t.Run("no signature", func(t *testing.T) {
		path := writeHex(t,
			hexRecord(0x0000, ihex.RecordData, 0x01, 0x02, 0x03),
			hexRecord(0x0000, ihex.RecordEndOfFile),
		)
		_, err := ExtractBootloaderVersion(path)
		assert.ErrorIs(t, err, ErrSignatureNotFound)
	})

	t.Run("missing EOF", func(t *testing.T) {
		sig := BootSignature()
		path := writeHex(t,
			hexRecord(0x8000, ihex.RecordData, sig[:]...),
			hexRecord(0x8010, ihex.RecordData, 0x06, 0x68),
		)
		_, err := ExtractBootloaderVersion(path)
		require.Error(t, err)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, path, parseErr.Path)
		assert.ErrorIs(t, err, ihex.ErrMissingEOF)
	})

	t.Run("malformed line", func(t *testing.T) {
		path := writeHex(t,
			":0100000055AB",
			hexRecord(0x0000, ihex.RecordEndOfFile),
		)
		_, err := ExtractBootloaderVersion(path)
		assert.ErrorIs(t, err, ihex.ErrChecksumMismatch)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ExtractBootloaderVersion(filepath.Join(t.TempDir(), "nope.hex"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("version truncated", func(t *testing.T) {
		sig := BootSignature()
		path := writeHex(t,
			hexRecord(0x8000, ihex.RecordData, sig[:]...),
			hexRecord(0x8010, ihex.RecordData, 0x06),
			hexRecord(0x0000, ihex.RecordEndOfFile),
		)
		_, err := ExtractBootloaderVersion(path)
		assert.ErrorIs(t, err, ErrVersionMissing)
	})
}

func TestCalculateFlashPagesUsed(t *testing.T) {
	path := bootloaderHex(t)

	pages, err := CalculateFlashPagesUsed(path, 2048)
	require.NoError(t, err)
	// 0x08000000 - 0x08008012
	assert.Equal(t, 17, pages)

	pages, err = CalculateFlashPagesUsed(path, 0x10000)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)

	_, err = CalculateFlashPagesUsed(path, 0)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
}

func TestCalculateFlashPagesUsedParseFailure(t *testing.T) {
	path := writeHex(t, hexRecord(0x0000, ihex.RecordData, 0x01))

	_, err := CalculateFlashPagesUsed(path, 2048)
	require.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.ErrorIs(t, err, ihex.ErrMissingEOF)
}

func TestFlashPagesUsedLogs(t *testing.T) {
	logger := &MockLogger{}
	insp := New(WithLogger(logger), WithPageSize(1024))

	pages, err := insp.FlashPagesUsed(bootloaderHex(t))
	require.NoError(t, err)
	assert.Equal(t, 33, pages)
	assert.True(t, logger.Contains("flash usage"))

	_, err = insp.FlashPagesUsed(filepath.Join(t.TempDir(), "nope.hex"))
	require.Error(t, err)
	assert.True(t, logger.Contains("failed to load firmware"))
}

func TestInspectorValidate(t *testing.T) {
	logger := &MockLogger{}
	insp := New(WithLogger(logger))

	require.NoError(t, insp.Validate(bootloaderHex(t)))

	line := hexRecord(0x0000, ihex.RecordData, 0x01)
	path := writeHex(t, line, line, hexRecord(0, ihex.RecordEndOfFile))
	err := insp.Validate(path)
	assert.ErrorIs(t, err, ihex.ErrOverlappingAddress)
	assert.True(t, logger.Contains("validation failed"))
}

func TestInspect(t *testing.T) {
	insp := New()

	report, err := insp.Inspect(bootloaderHex(t))
	require.NoError(t, err)

	assert.True(t, report.Valid())
	assert.Equal(t, 4+SignatureLength+3, report.Bytes)
	assert.Equal(t, uint32(0x08000000), report.MinAddress)
	assert.Equal(t, uint32(0x08008012), report.MaxAddress)
	assert.Len(t, report.Segments, 2)
	assert.Equal(t, uint32(DefaultPageSize), report.PageSize)
	assert.Equal(t, 17, report.Pages)
	require.NotNil(t, report.Version)
	assert.Equal(t, Version{Major: 0x06, Minor: 0x68}, *report.Version)
	assert.Equal(t, uint32(0x08008000), report.SignatureAddress)
}

func TestInspectInvalidButParseable(t *testing.T) {
	line := hexRecord(0x0100, ihex.RecordData, 0xAA, 0xBB)
	path := writeHex(t,
		"; comment",
		line,
		line,
		hexRecord(0, ihex.RecordEndOfFile),
	)

	report, err := New().Inspect(path)
	require.NoError(t, err)
	assert.False(t, report.Valid())
	assert.ErrorIs(t, report.ValidationErr, ihex.ErrMissingColon)
	assert.Equal(t, 2, report.Bytes)
	assert.Equal(t, 1, report.Pages)
	assert.Nil(t, report.Version)
}

func TestInspectUnparseable(t *testing.T) {
	path := writeHex(t, hexRecord(0x0000, ihex.RecordData, 0x01))

	_, err := New().Inspect(path)
	assert.ErrorIs(t, err, ihex.ErrMissingEOF)
}

func TestInspectorConcurrentUse(t *testing.T) {
	insp := New()
	path := bootloaderHex(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ver, err := insp.BootloaderVersion(path)
			assert.NoError(t, err)
			assert.Equal(t, byte(0x06), ver.Major)
		}()
	}
	wg.Wait()
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "firmware.hex")
	require.NoError(t, os.WriteFile(path, []byte(":00000001FF\n"), 0o644))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "missing.hex")))
	assert.False(t, FileExists(dir))
}
