package ihex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageOrdering(t *testing.T) {
	img := NewImage(map[uint32]byte{
		0x8000:     0x03,
		0x0000:     0x01,
		0x00010000: 0x04,
		0x0800:     0x02,
	})

	assert.Equal(t, 4, img.Len())
	assert.Equal(t, []uint32{0x0000, 0x0800, 0x8000, 0x00010000}, img.Addresses())

	lo, ok := img.MinAddress()
	require.True(t, ok)
	assert.Equal(t, uint32(0x0000), lo)

	hi, ok := img.MaxAddress()
	require.True(t, ok)
	assert.Equal(t, uint32(0x00010000), hi)

	var visited []byte
	img.Range(func(addr uint32, b byte) bool {
		visited = append(visited, b)
		return true
	})
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, visited)
}

func TestImageRangeStops(t *testing.T) {
	img := NewImage(map[uint32]byte{0: 1, 1: 2, 2: 3})

	count := 0
	img.Range(func(addr uint32, b byte) bool {
		count++
		return addr < 1
	})
	assert.Equal(t, 2, count)
}

func TestImageCopiesInput(t *testing.T) {
	data := map[uint32]byte{0x10: 0xAA}
	img := NewImage(data)

	data[0x10] = 0xBB
	data[0x11] = 0xCC

	b, ok := img.Get(0x10)
	require.True(t, ok)
	assert.Equal(t, byte(0xAA), b)
	assert.Equal(t, 1, img.Len())

	addrs := img.Addresses()
	addrs[0] = 0xFFFF
	assert.Equal(t, []uint32{0x10}, img.Addresses())
}

func TestImageEmpty(t *testing.T) {
	img := NewImage(nil)

	assert.Equal(t, 0, img.Len())
	_, ok := img.MinAddress()
	assert.False(t, ok)
	_, ok = img.MaxAddress()
	assert.False(t, ok)
	assert.Empty(t, img.Segments())
}

func TestImageSegments(t *testing.T) {
	img := NewImage(map[uint32]byte{
		0x0000: 0x01,
		0x0001: 0x02,
		0x0002: 0x03,
		0x0100: 0x04,
		0x0101: 0x05,
		0x8000: 0x06,
	})

	want := []Segment{
		{Address: 0x0000, Data: []byte{0x01, 0x02, 0x03}},
		{Address: 0x0100, Data: []byte{0x04, 0x05}},
		{Address: 0x8000, Data: []byte{0x06}},
	}
	assert.Equal(t, want, img.Segments())
}
