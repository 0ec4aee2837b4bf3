package ihex

import "slices"

// Image is a sparse memory image reconstructed from an Intel HEX file.
// It maps absolute 32-bit addresses to data bytes and iterates in ascending
// address order.
//
// An Image is not modified after it is returned, so it is safe for
// concurrent reads.
type Image struct {
	data  map[uint32]byte
	addrs []uint32 // ascending
}

// Segment is a run of contiguous bytes within an Image.
type Segment struct {
	// Address is the absolute address of the first byte
	Address uint32

	// Data holds the segment bytes
	Data []byte
}

// NewImage creates an Image holding a copy of data.
//
// Example:
//
//	img := ihex.NewImage(map[uint32]byte{0x0000: 0xAA, 0x07FF: 0xBB})
func NewImage(data map[uint32]byte) *Image {
	m := make(map[uint32]byte, len(data))
	for addr, b := range data {
		m[addr] = b
	}
	return newImage(m)
}

// newImage takes ownership of m.
func newImage(m map[uint32]byte) *Image {
	addrs := make([]uint32, 0, len(m))
	for addr := range m {
		addrs = append(addrs, addr)
	}
	slices.Sort(addrs)

	return &Image{data: m, addrs: addrs}
}

// Len returns the number of bytes held in the image.
func (img *Image) Len() int {
	return len(img.addrs)
}

// Get returns the byte at addr and whether it is present.
func (img *Image) Get(addr uint32) (byte, bool) {
	b, ok := img.data[addr]
	return b, ok
}

// Addresses returns all populated addresses in ascending order.
func (img *Image) Addresses() []uint32 {
	return slices.Clone(img.addrs)
}

// MinAddress returns the lowest populated address.
// ok is false for an empty image.
func (img *Image) MinAddress() (addr uint32, ok bool) {
	if len(img.addrs) == 0 {
		return 0, false
	}
	return img.addrs[0], true
}

// MaxAddress returns the highest populated address.
// ok is false for an empty image.
func (img *Image) MaxAddress() (addr uint32, ok bool) {
	if len(img.addrs) == 0 {
		return 0, false
	}
	return img.addrs[len(img.addrs)-1], true
}

// Range calls fn for every byte in ascending address order until fn
// returns false.
func (img *Image) Range(fn func(addr uint32, b byte) bool) {
	for _, addr := range img.addrs {
		if !fn(addr, img.data[addr]) {
			return
		}
	}
}

// Segments groups the image into runs of contiguous addresses, lowest first.
func (img *Image) Segments() []Segment {
	var segments []Segment
	for i, addr := range img.addrs {
		if i == 0 || addr != img.addrs[i-1]+1 {
			segments = append(segments, Segment{Address: addr})
		}
		last := &segments[len(segments)-1]
		last.Data = append(last.Data, img.data[addr])
	}
	return segments
}
