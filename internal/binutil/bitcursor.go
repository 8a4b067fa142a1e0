package binutil

import (
	"fmt"

	"github.com/dwclock/imgdec/internal/image"
)

// ErrBitWidth is returned by NewBitCursor for widths other than 1, 2, 4 or 8.
var ErrBitWidth = fmt.Errorf("%w: sample width must be 1, 2, 4 or 8", image.ErrUnsupportedBitDepth)

// BitCursor reads fixed-width samples packed MSB-first into bytes, the
// layout shared by BMP palette indices and PNG grayscale/palette samples.
//
// The first sample of a byte sits in its top bits. After the last sample of
// a byte the cursor moves to the next byte.
type BitCursor struct {
	buf   []byte
	off   int
	width int
	shift int
	mask  uint8
}

// NewBitCursor returns a cursor over buf starting at byte off.
func NewBitCursor(buf []byte, off, width int) (*BitCursor, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("%w (got %d)", ErrBitWidth, width)
	}
	return &BitCursor{
		buf:   buf,
		off:   off,
		width: width,
		shift: 8 - width,
		mask:  uint8(1<<width - 1),
	}, nil
}

// Next returns the next sample and advances the cursor.
func (c *BitCursor) Next() (uint8, error) {
	b, err := U8(c.buf, c.off)
	if err != nil {
		return 0, err
	}
	v := (b >> c.shift) & c.mask
	c.shift -= c.width
	if c.shift < 0 {
		c.shift = 8 - c.width
		c.off++
	}
	return v, nil
}

// AlignByte skips the unread samples of a partially consumed byte.
// It is a no-op when the cursor is on a byte boundary.
func (c *BitCursor) AlignByte() {
	if c.shift != 8-c.width {
		c.shift = 8 - c.width
		c.off++
	}
}

// Skip advances the cursor by n whole bytes. The cursor must be byte aligned.
func (c *BitCursor) Skip(n int) {
	c.off += n
}

// Offset returns the byte offset of the next sample.
func (c *BitCursor) Offset() int {
	return c.off
}

// MaxSample returns the largest value a sample can hold.
func (c *BitCursor) MaxSample() uint8 {
	return c.mask
}
