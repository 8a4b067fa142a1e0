package bmp

import (
	"fmt"
	stdimage "image"
	"image/color"

	"github.com/dwclock/imgdec/internal/binutil"
	"github.com/dwclock/imgdec/internal/image"
)

// DecodeConfig returns the dimensions of a bitmap without decoding pixels.
func DecodeConfig(data []byte) (stdimage.Config, error) {
	h, err := Parse(data)
	if err != nil {
		return stdimage.Config{}, err
	}
	return stdimage.Config{ColorModel: color.NRGBAModel, Width: h.Width, Height: h.Height}, nil
}

// DecodeBytes parses and decodes a bitmap in one step.
func DecodeBytes(data []byte, pool *image.Pool) (*image.PixelBuffer, error) {
	h, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Decode(h, pool)
}

// Decode converts the pixel data described by h into an RGBA8888 buffer
// drawn from pool.
//
// Source rows are stored bottom-up; the output is top-down. On failure the
// partially written buffer goes back to the pool and nil is returned.
func Decode(h *Header, pool *image.Pool) (*image.PixelBuffer, error) {
	var decodeRows func(*Header, *image.PixelBuffer, int) error
	switch h.BitDepth {
	case 1, 4, 8:
		decodeRows = decodePaletted
	case 24, 32:
		decodeRows = decodeTruecolor
	default:
		return nil, fmt.Errorf("%w: %d bits per pixel", image.ErrUnsupportedBitDepth, h.BitDepth)
	}

	padding, err := h.paddingBytes()
	if err != nil {
		return nil, err
	}
	if err := h.checkPixelData(padding); err != nil {
		return nil, err
	}

	buf, err := pool.Get(h.Width, h.Height)
	if err != nil {
		return nil, err
	}
	if err := decodeRows(h, buf, padding); err != nil {
		pool.Put(buf)
		return nil, err
	}
	return buf, nil
}

// rowBytes is the number of bytes holding one row of pixels, excluding padding.
func (h *Header) rowBytes() int {
	return (h.Width*h.BitDepth + 7) / 8
}

// checkPixelData verifies that every row lies inside the input before any
// buffer is allocated. The padding after the last row may be missing.
func (h *Header) checkPixelData(padding int) error {
	need := int64(h.DataOffset) + int64(h.Height-1)*int64(h.rowBytes()+padding) + int64(h.rowBytes())
	if need > int64(len(h.data)) {
		return fmt.Errorf("%w: pixel data ends at %d, file has %d bytes", image.ErrTruncatedInput, need, len(h.data))
	}
	return nil
}

// palette reads the color table into a table of 2^bpp entries.
// Entries past the declared count stay black.
func (h *Header) palette() (image.Palette, error) {
	table := make(image.Palette, 1<<h.BitDepth)
	n := min(h.PaletteCount, len(table))
	raw, err := binutil.Slice(h.data, h.PaletteOffset, n*h.PaletteEntry)
	if err != nil {
		return nil, fmt.Errorf("bmp: palette: %w", err)
	}
	for i := range n {
		e := raw[i*h.PaletteEntry:]
		table[i] = image.PaletteEntry{R: e[2], G: e[1], B: e[0]}
	}
	return table, nil
}

func decodePaletted(h *Header, buf *image.PixelBuffer, padding int) error {
	table, err := h.palette()
	if err != nil {
		return err
	}
	c, err := binutil.NewBitCursor(h.data, int(h.DataOffset), h.BitDepth)
	if err != nil {
		return err
	}

	for src := range h.Height {
		row := buf.RowBytes(h.Height - 1 - src)
		for x := 0; x < len(row); x += image.BytesPerPixel {
			idx, err := c.Next()
			if err != nil {
				return fmt.Errorf("bmp: row %d: %w", src, err)
			}
			p := table.At(int(idx))
			row[x] = p.R
			row[x+1] = p.G
			row[x+2] = p.B
			row[x+3] = 0xFF
		}
		c.AlignByte()
		c.Skip(padding)
	}
	return nil
}

func decodeTruecolor(h *Header, buf *image.PixelBuffer, padding int) error {
	step := h.BitDepth / 8
	off := int(h.DataOffset)

	for src := range h.Height {
		in, err := binutil.Slice(h.data, off, h.rowBytes())
		if err != nil {
			return fmt.Errorf("bmp: row %d: %w", src, err)
		}
		row := buf.RowBytes(h.Height - 1 - src)
		for i, x := 0, 0; x < len(row); i, x = i+step, x+image.BytesPerPixel {
			row[x] = in[i+2]
			row[x+1] = in[i+1]
			row[x+2] = in[i]
			if step == 4 {
				row[x+3] = in[i+3]
			} else {
				row[x+3] = 0xFF
			}
		}
		off += len(in) + padding
	}
	return nil
}
