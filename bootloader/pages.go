package bootloader

import "github.com/moffa90/go-ihex/ihex"

// PagesUsed returns the number of flash pages of pageSize bytes spanned by
// img, from the page holding its lowest address to the page holding its
// highest address. Unwritten pages inside that range are counted.
// An empty image uses no pages.
//
// Example:
//
//	img := ihex.NewImage(map[uint32]byte{0x0000: 0xAA, 0x0800: 0xBB})
//	pages, _ := bootloader.PagesUsed(img, 2048) // 2
func PagesUsed(img *ihex.Image, pageSize uint32) (int, error) {
	if pageSize == 0 {
		return 0, ErrInvalidPageSize
	}
	if img == nil {
		return 0, nil
	}

	lo, ok := img.MinAddress()
	if !ok {
		return 0, nil
	}
	hi, _ := img.MaxAddress()

	firstPage := lo / pageSize
	lastPage := hi / pageSize

	return int(lastPage-firstPage) + 1, nil
}
