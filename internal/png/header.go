// Package png decodes non-interlaced PNG images into RGBA8888 pixel buffers.
//
// Decoding runs in three steps that callers may drive separately:
// Parse walks and checksums the chunks, Scanlines inflates and unfilters the
// image data, and Decode converts scanlines to pixels for the supported
// color types.
package png

import (
	"fmt"

	"github.com/dwclock/imgdec/internal/binutil"
	"github.com/dwclock/imgdec/internal/image"
)

// ColorType is the IHDR color type.
type ColorType uint8

// Color types defined by the PNG standard.
const (
	ColorGrayscale      ColorType = 0
	ColorTruecolor      ColorType = 2
	ColorPalette        ColorType = 3
	ColorGrayscaleAlpha ColorType = 4
	ColorTruecolorAlpha ColorType = 6
)

// String returns the color type name.
func (c ColorType) String() string {
	switch c {
	case ColorGrayscale:
		return "grayscale"
	case ColorTruecolor:
		return "truecolor"
	case ColorPalette:
		return "palette"
	case ColorGrayscaleAlpha:
		return "grayscale+alpha"
	case ColorTruecolorAlpha:
		return "truecolor+alpha"
	default:
		return fmt.Sprintf("ColorType(%d)", uint8(c))
	}
}

// channels returns the samples per pixel, or 0 for unknown color types.
func (c ColorType) channels() int {
	switch c {
	case ColorGrayscale, ColorPalette:
		return 1
	case ColorGrayscaleAlpha:
		return 2
	case ColorTruecolor:
		return 3
	case ColorTruecolorAlpha:
		return 4
	default:
		return 0
	}
}

// Header describes a parsed PNG stream.
type Header struct {
	Width     int
	Height    int
	BitDepth  int
	ColorType ColorType
	Interlace uint8
	// RowBytes is the unfiltered length of one scanline.
	RowBytes int
	// Palette is nil when the stream has no PLTE chunk.
	Palette image.Palette
	// IDAT is the concatenated compressed image data.
	IDAT []byte
}

// BitsPerPixel returns the number of bits one pixel occupies in a scanline.
func (h *Header) BitsPerPixel() int {
	return h.ColorType.channels() * h.BitDepth
}

// bytesPerPixel is the filter unit: the pixel size rounded up to one byte.
func (h *Header) bytesPerPixel() int {
	return max(1, h.BitsPerPixel()/8)
}

// Parse validates the signature and chunk structure and reads the header,
// palette and image data.
func Parse(data []byte) (*Header, error) {
	if len(data) < len(Signature) || string(data[:len(Signature)]) != Signature {
		return nil, image.ErrNotAPng
	}

	c, err := readChunks(data)
	if err != nil {
		return nil, err
	}

	h, err := parseIHDR(c.ihdr)
	if err != nil {
		return nil, err
	}
	if c.plte != nil {
		if h.Palette, err = parsePLTE(c.plte); err != nil {
			return nil, err
		}
	}
	if len(c.idat) == 0 {
		return nil, fmt.Errorf("%w: no IDAT chunk", image.ErrTruncatedInput)
	}
	h.IDAT = c.idat
	return h, nil
}

func parseIHDR(b []byte) (*Header, error) {
	if len(b) != 13 {
		return nil, fmt.Errorf("%w: IHDR length %d", image.ErrCorruptInput, len(b))
	}
	width, _ := binutil.U32BE(b, 0)
	height, _ := binutil.U32BE(b, 4)
	if width > maxChunkLen || height > maxChunkLen || !image.ValidSize(int(width), int(height)) {
		return nil, fmt.Errorf("%w: %dx%d", image.ErrInvalidDimensions, width, height)
	}

	h := &Header{
		Width:     int(width),
		Height:    int(height),
		BitDepth:  int(b[8]),
		ColorType: ColorType(b[9]),
		Interlace: b[12],
	}
	if h.ColorType.channels() == 0 {
		return nil, fmt.Errorf("%w: %d", image.ErrUnsupportedColorType, b[9])
	}
	if b[10] != 0 || b[11] != 0 {
		return nil, fmt.Errorf("%w: compression method %d, filter method %d", image.ErrCorruptInput, b[10], b[11])
	}
	if h.Interlace != 0 {
		return nil, fmt.Errorf("%w: interlace method %d", image.ErrUnsupportedFormat, h.Interlace)
	}
	switch h.BitDepth {
	case 1, 2, 4, 8, 16:
	default:
		return nil, fmt.Errorf("%w: %d", image.ErrUnsupportedBitDepth, h.BitDepth)
	}
	h.RowBytes = (h.Width*h.BitsPerPixel() + 7) / 8
	return h, nil
}

func parsePLTE(b []byte) (image.Palette, error) {
	if len(b)%3 != 0 || len(b) > 256*3 {
		return nil, fmt.Errorf("%w: PLTE length %d", image.ErrCorruptInput, len(b))
	}
	p := make(image.Palette, len(b)/3)
	for i := range p {
		p[i] = image.PaletteEntry{R: b[3*i], G: b[3*i+1], B: b[3*i+2]}
	}
	return p, nil
}
