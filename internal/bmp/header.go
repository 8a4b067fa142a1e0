// Package bmp decodes Windows and OS/2 bitmap files into RGBA8888 pixel
// buffers.
//
// Supported layouts: bottom-up, uncompressed or default-mask bitfields,
// 1/4/8-bit palette and 24/32-bit truecolor. Headers are read with explicit
// bounds checks, so truncated files fail with image.ErrTruncatedInput instead
// of panicking.
package bmp

import (
	"fmt"

	"github.com/dwclock/imgdec/internal/binutil"
	"github.com/dwclock/imgdec/internal/image"
)

const (
	fileHeaderLen    = 14
	windowsHeaderLen = 40
	os2HeaderLen     = 12

	maxPaletteEntries = 256
	bitfieldsLen      = 12
)

// Channel masks of a BI_BITFIELDS bitmap laid out like plain 32-bit BGRA.
const (
	defaultRedMask   = 0x00FF0000
	defaultGreenMask = 0x0000FF00
	defaultBlueMask  = 0x000000FF
)

// Compression codes from the info header.
const (
	CompressionRGB       = 0
	CompressionRLE8      = 1
	CompressionRLE4      = 2
	CompressionBitfields = 3
)

// Variant identifies the info-header layout.
type Variant uint8

const (
	// VariantWindows is the 40-byte BITMAPINFOHEADER.
	VariantWindows Variant = iota
	// VariantOS2 is the 12-byte BITMAPCOREHEADER.
	VariantOS2
)

// String returns the variant name.
func (v Variant) String() string {
	switch v {
	case VariantWindows:
		return "windows"
	case VariantOS2:
		return "os2"
	default:
		return fmt.Sprintf("Variant(%d)", v)
	}
}

// Header holds the parsed file and info headers of a bitmap.
//
// A Header keeps a reference to the input it was parsed from; Decode reads
// the palette and pixel data from there.
type Header struct {
	FileSize      uint32
	DataOffset    uint32
	Variant       Variant
	Width         int
	Height        int
	BitDepth      int
	Compression   uint32
	ImageSize     uint32 // may be 0 for uncompressed files
	PaletteCount  int
	PaletteEntry  int // bytes per palette entry: 4 (Windows) or 3 (OS/2)
	PaletteOffset int

	data []byte
}

// Indexed reports whether pixels are palette indices.
func (h *Header) Indexed() bool {
	return h.BitDepth <= 8
}

// Parse reads the file and info headers of a bitmap.
func Parse(data []byte) (*Header, error) {
	if len(data) < 2 || data[0] != 'B' || data[1] != 'M' {
		return nil, image.ErrNotABitmap
	}

	h := &Header{data: data}
	var err error
	if h.FileSize, err = binutil.U32(data, 2); err != nil {
		return nil, fmt.Errorf("bmp: file header: %w", err)
	}
	if h.DataOffset, err = binutil.U32(data, 10); err != nil {
		return nil, fmt.Errorf("bmp: file header: %w", err)
	}
	infoLen, err := binutil.U32(data, fileHeaderLen)
	if err != nil {
		return nil, fmt.Errorf("bmp: info header: %w", err)
	}

	switch infoLen {
	case windowsHeaderLen:
		err = h.parseWindows()
	case os2HeaderLen:
		err = h.parseOS2()
	default:
		return nil, fmt.Errorf("%w: info header length %d", image.ErrUnsupportedHeaderVariant, infoLen)
	}
	if err != nil {
		return nil, fmt.Errorf("bmp: info header: %w", err)
	}
	h.PaletteOffset = fileHeaderLen + int(infoLen)

	if h.Width <= 0 || h.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", image.ErrInvalidDimensions, h.Width, h.Height)
	}

	switch h.Compression {
	case CompressionRGB:
	case CompressionBitfields:
		if err := h.checkMasks(); err != nil {
			return nil, err
		}
		h.PaletteOffset += bitfieldsLen
	case CompressionRLE8, CompressionRLE4:
		return nil, fmt.Errorf("%w: run-length compression %d", image.ErrUnsupportedFormat, h.Compression)
	default:
		return nil, fmt.Errorf("%w: compression %d", image.ErrUnsupportedFormat, h.Compression)
	}

	if h.Indexed() {
		if h.PaletteCount == 0 {
			h.PaletteCount = 1 << h.BitDepth
		}
		if h.PaletteCount > maxPaletteEntries {
			return nil, fmt.Errorf("%w: %d palette entries", image.ErrCorruptInput, h.PaletteCount)
		}
	}

	return h, nil
}

func (h *Header) parseWindows() error {
	width, err := binutil.I32(h.data, 18)
	if err != nil {
		return err
	}
	height, err := binutil.I32(h.data, 22)
	if err != nil {
		return err
	}
	bpp, err := binutil.U16(h.data, 28)
	if err != nil {
		return err
	}
	if h.Compression, err = binutil.U32(h.data, 30); err != nil {
		return err
	}
	if h.ImageSize, err = binutil.U32(h.data, 34); err != nil {
		return err
	}
	count, err := binutil.U32(h.data, 46)
	if err != nil {
		return err
	}

	h.Variant = VariantWindows
	h.Width, h.Height, h.BitDepth = int(width), int(height), int(bpp)
	h.PaletteCount = int(min(count, maxPaletteEntries+1))
	h.PaletteEntry = 4
	return nil
}

// checkMasks reads the three channel masks that follow a BI_BITFIELDS info
// header. Only 32-bit pixels with the default BGRA masks are supported.
func (h *Header) checkMasks() error {
	if h.Variant != VariantWindows || h.BitDepth != 32 {
		return fmt.Errorf("%w: bitfields at %d bits per pixel", image.ErrUnsupportedFormat, h.BitDepth)
	}
	var masks [3]uint32
	for i := range masks {
		m, err := binutil.U32(h.data, fileHeaderLen+windowsHeaderLen+4*i)
		if err != nil {
			return fmt.Errorf("bmp: bitfield masks: %w", err)
		}
		masks[i] = m
	}
	if masks != [3]uint32{defaultRedMask, defaultGreenMask, defaultBlueMask} {
		return fmt.Errorf("%w: bitfield masks %#08x %#08x %#08x",
			image.ErrUnsupportedFormat, masks[0], masks[1], masks[2])
	}
	return nil
}

func (h *Header) parseOS2() error {
	width, err := binutil.U16(h.data, 18)
	if err != nil {
		return err
	}
	height, err := binutil.U16(h.data, 20)
	if err != nil {
		return err
	}
	bpp, err := binutil.U16(h.data, 24)
	if err != nil {
		return err
	}

	h.Variant = VariantOS2
	h.Width, h.Height, h.BitDepth = int(width), int(height), int(bpp)
	h.PaletteEntry = 3
	return nil
}

// paddingBytes returns the number of bytes skipped after each pixel row,
// derived from the declared image size (or the file size when that is 0).
func (h *Header) paddingBytes() (int, error) {
	size := int64(h.ImageSize)
	if size == 0 {
		size = int64(h.FileSize) - int64(h.DataOffset)
	}
	paddingBits := size*8/int64(h.Height) - int64(h.Width)*int64(h.BitDepth)
	if paddingBits < 0 {
		return 0, fmt.Errorf("%w: image data holds %d bytes, need %d rows of %d bits",
			image.ErrTruncatedInput, size, h.Height, h.Width*h.BitDepth)
	}
	return int(paddingBits / 8), nil
}
