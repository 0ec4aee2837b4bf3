package ihex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "firmware.hex")
	content := ":0400100001020304E2\n:00000001FF\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	img, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Len())

	_, err = Parse(filepath.Join(dir, "missing.hex"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "failed to open file")
}

func TestParseReader(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[uint32]byte
		wantErr error
		errMsg  string
	}{
		{
			name: "single data record",
			input: ":0400100001020304E2\n" +
				":00000001FF\n",
			want: map[uint32]byte{0x10: 0x01, 0x11: 0x02, 0x12: 0x03, 0x13: 0x04},
		},
		{
			name: "extended linear address",
			input: ":020000040001F9\n" +
				":0100000055AA\n" +
				":00000001FF\n",
			want: map[uint32]byte{0x00010000: 0x55},
		},
		{
			name: "extended address applies to following records only",
			input: ":0100000055AA\n" +
				":020000040001F9\n" +
				":0100000055AA\n" +
				":00000001FF\n",
			want: map[uint32]byte{0x00000000: 0x55, 0x00010000: 0x55},
		},
		{
			name: "later writes overwrite earlier ones",
			input: ":03000000010203F7\n" +
				":020002000304F5\n" +
				":00000001FF\n",
			want: map[uint32]byte{0x00: 0x01, 0x01: 0x02, 0x02: 0x03, 0x03: 0x04},
		},
		{
			name: "non-record lines are skipped",
			input: "# built by make\n" +
				"\n" +
				":0100000055AA\r\n" +
				"garbage\n" +
				":00000001FF\n",
			want: map[uint32]byte{0x00: 0x55},
		},
		{
			name: "lines after EOF are ignored",
			input: ":0100000055AA\n" +
				":00000001FF\n" +
				":0100000055AB\n",
			want: map[uint32]byte{0x00: 0x55},
		},
		{
			name: "inert record types",
			input: ":020000021000EC\n" +
				":0400000300000000F9\n" +
				":0400000508000101ED\n" +
				":0100000055AA\n" +
				":00000001FF\n",
			want: map[uint32]byte{0x00: 0x55},
		},
		{
			name:  "eof only",
			input: ":00000001FF\n",
			want:  map[uint32]byte{},
		},
		{
			name:    "missing EOF",
			input:   ":0100000055AA\n",
			wantErr: ErrMissingEOF,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: ErrMissingEOF,
		},
		{
			name: "bad checksum",
			input: ":0100000055AA\n" +
				":0100000055AB\n" +
				":00000001FF\n",
			wantErr: ErrChecksumMismatch,
			errMsg:  "line 2",
		},
		{
			name: "short extended address payload",
			input: ":0100000400FB\n" +
				":00000001FF\n",
			wantErr: ErrBadExtendedAddress,
			errMsg:  "line 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ParseReader(strings.NewReader(tt.input))

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, img)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, NewImage(tt.want), img)
		})
	}
}

func TestParseReaderExtendedAddressRoundTrip(t *testing.T) {
	input := ":020000040001F9\n" +
		":0400100001020304E2\n" +
		":00000001FF\n"

	img, err := ParseReader(strings.NewReader(input))
	require.NoError(t, err)

	b, ok := img.Get(0x00010010)
	require.True(t, ok)
	assert.Equal(t, byte(0x01), b)

	_, ok = img.Get(0x0010)
	assert.False(t, ok, "address must include the extended linear address")
}
