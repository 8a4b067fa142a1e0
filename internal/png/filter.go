package png

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/dwclock/imgdec/internal/image"
)

// Filter types.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
)

const (
	// rowsPrealloc caps the initial capacity of the row slice.
	rowsPrealloc = 1024
	// maxEagerRow is the largest row allocated before its data is read.
	maxEagerRow = 64 << 10
)

// Scanlines inflates idat and reverses the per-row filters.
//
// It returns h.Height rows of h.RowBytes bytes each, top to bottom.
// Rows are read one at a time, so memory grows with the data actually
// present rather than with the declared size. Trailing data after the last
// row is ignored.
func Scanlines(h *Header, idat []byte) ([][]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(idat))
	if err != nil {
		return nil, inflateError(err)
	}
	defer zr.Close()

	bpp := h.bytesPerPixel()
	rows := make([][]byte, 0, min(h.Height, rowsPrealloc))
	var prev []byte
	for y := range h.Height {
		line, err := readRow(zr, h.RowBytes+1)
		if err != nil {
			return nil, fmt.Errorf("png: row %d: %w", y, inflateError(err))
		}
		cur := line[1:]
		if err := unfilter(line[0], cur, prev, bpp); err != nil {
			return nil, fmt.Errorf("png: row %d: %w", y, err)
		}
		rows = append(rows, cur)
		prev = cur
	}
	return rows, nil
}

// readRow reads exactly n bytes. Long rows grow with the data read.
func readRow(r io.Reader, n int) ([]byte, error) {
	if n <= maxEagerRow {
		line := make([]byte, n)
		if _, err := io.ReadFull(r, line); err != nil {
			return nil, err
		}
		return line, nil
	}
	var b bytes.Buffer
	if _, err := io.CopyN(&b, r, int64(n)); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func inflateError(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: image data ends early", image.ErrTruncatedInput)
	}
	return fmt.Errorf("%w: inflate: %v", image.ErrCorruptInput, err)
}

// unfilter reverses filter ft on cur in place. prev is the previous
// unfiltered row, or nil for the first row.
func unfilter(ft byte, cur, prev []byte, bpp int) error {
	switch ft {
	case ftNone:
	case ftSub:
		for i := bpp; i < len(cur); i++ {
			cur[i] += cur[i-bpp]
		}
	case ftUp:
		for i, p := range prev {
			cur[i] += p
		}
	case ftAverage:
		for i := range cur {
			var left, up int
			if i >= bpp {
				left = int(cur[i-bpp])
			}
			if prev != nil {
				up = int(prev[i])
			}
			cur[i] += uint8((left + up) / 2)
		}
	case ftPaeth:
		for i := range cur {
			var a, b, c uint8
			if i >= bpp {
				a = cur[i-bpp]
			}
			if prev != nil {
				b = prev[i]
				if i >= bpp {
					c = prev[i-bpp]
				}
			}
			cur[i] += paeth(a, b, c)
		}
	default:
		return fmt.Errorf("%w: filter type %d", image.ErrCorruptInput, ft)
	}
	return nil
}

// paeth returns whichever of left, up and upper-left is closest to
// left + up - upperLeft, preferring them in that order on ties.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
