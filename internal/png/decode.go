package png

import (
	"fmt"
	stdimage "image"
	"image/color"

	"github.com/dwclock/imgdec/internal/binutil"
	"github.com/dwclock/imgdec/internal/image"
)

// DecodeConfig returns the dimensions of a PNG image without inflating it.
func DecodeConfig(data []byte) (stdimage.Config, error) {
	h, err := Parse(data)
	if err != nil {
		return stdimage.Config{}, err
	}
	return stdimage.Config{ColorModel: color.NRGBAModel, Width: h.Width, Height: h.Height}, nil
}

// DecodeBytes runs Parse, Scanlines and Decode on a complete PNG file.
func DecodeBytes(data []byte, pool *image.Pool) (*image.PixelBuffer, error) {
	h, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := h.checkSupported(); err != nil {
		return nil, err
	}
	rows, err := Scanlines(h, h.IDAT)
	if err != nil {
		return nil, err
	}
	return Decode(h, rows, pool)
}

// checkSupported reports whether Decode handles the header's color type
// and bit depth.
func (h *Header) checkSupported() error {
	var ok bool
	switch h.ColorType {
	case ColorGrayscale, ColorPalette:
		ok = h.BitDepth <= 8
	case ColorTruecolor, ColorTruecolorAlpha:
		ok = h.BitDepth == 8
	case ColorGrayscaleAlpha:
		return fmt.Errorf("%w: %s", image.ErrUnsupportedFormat, h.ColorType)
	default:
		return fmt.Errorf("%w: %d", image.ErrUnsupportedColorType, uint8(h.ColorType))
	}
	if !ok {
		return fmt.Errorf("%w: %d-bit %s", image.ErrUnsupportedBitDepth, h.BitDepth, h.ColorType)
	}
	if h.ColorType == ColorPalette && h.Palette == nil {
		return image.ErrPaletteMissing
	}
	return nil
}

// Decode converts unfiltered scanlines into an RGBA8888 buffer drawn from
// pool. Rows are already in top-to-bottom order.
//
// Grayscale samples of depth d are scaled by 255/(2^d-1). Palette indices
// past the end of the palette decode as black. Transparency chunks are
// ignored.
func Decode(h *Header, scanlines [][]byte, pool *image.Pool) (*image.PixelBuffer, error) {
	if err := h.checkSupported(); err != nil {
		return nil, err
	}
	if len(scanlines) < h.Height {
		return nil, fmt.Errorf("%w: %d scanlines, need %d", image.ErrTruncatedInput, len(scanlines), h.Height)
	}
	for y, line := range scanlines[:h.Height] {
		if len(line) < h.RowBytes {
			return nil, fmt.Errorf("%w: scanline %d has %d bytes, need %d", image.ErrTruncatedInput, y, len(line), h.RowBytes)
		}
	}

	buf, err := pool.Get(h.Width, h.Height)
	if err != nil {
		return nil, err
	}
	for y := range h.Height {
		if err := h.decodeRow(buf.RowBytes(y), scanlines[y]); err != nil {
			pool.Put(buf)
			return nil, fmt.Errorf("png: row %d: %w", y, err)
		}
	}
	return buf, nil
}

func (h *Header) decodeRow(dst, line []byte) error {
	switch h.ColorType {
	case ColorTruecolor:
		for i, x := 0, 0; x < len(dst); i, x = i+3, x+image.BytesPerPixel {
			dst[x], dst[x+1], dst[x+2], dst[x+3] = line[i], line[i+1], line[i+2], 0xFF
		}
		return nil
	case ColorTruecolorAlpha:
		copy(dst, line[:len(dst)])
		return nil
	}

	c, err := binutil.NewBitCursor(line, 0, h.BitDepth)
	if err != nil {
		return err
	}
	scale := 255 / c.MaxSample()
	for x := 0; x < len(dst); x += image.BytesPerPixel {
		s, err := c.Next()
		if err != nil {
			return err
		}
		if h.ColorType == ColorPalette {
			p := h.Palette.At(int(s))
			dst[x], dst[x+1], dst[x+2] = p.R, p.G, p.B
		} else {
			lum := s * scale
			dst[x], dst[x+1], dst[x+2] = lum, lum, lum
		}
		dst[x+3] = 0xFF
	}
	return nil
}
