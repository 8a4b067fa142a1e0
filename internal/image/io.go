package image

import (
	"image"

	"golang.org/x/image/draw"
)

// ScaleMethod selects the interpolator used by Scale.
type ScaleMethod int

const (
	// ScaleNearest is fast nearest-neighbor sampling. It keeps hard pixel
	// edges, which suits glyph bitmaps.
	ScaleNearest ScaleMethod = iota
	// ScaleCatmullRom is slower bicubic sampling.
	ScaleCatmullRom
)

func (m ScaleMethod) interpolator() draw.Interpolator {
	if m == ScaleCatmullRom {
		return draw.CatmullRom
	}
	return draw.NearestNeighbor
}

// ToStdImage wraps the buffer as a standard library *image.NRGBA.
// Decoded pixels are not premultiplied, so NRGBA is the exact match.
// The returned image shares memory with the buffer.
func (b *PixelBuffer) ToStdImage() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.data,
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// FromStdImage creates a PixelBuffer from a standard library image.
func FromStdImage(img image.Image) (*PixelBuffer, error) {
	bounds := img.Bounds()
	buf, err := NewPixelBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}

	// Fast path for NRGBA images
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := range buf.height {
			srcStart := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(buf.RowBytes(y), nrgba.Pix[srcStart:srcStart+buf.Stride()])
		}
		return buf, nil
	}

	dst := buf.ToStdImage()
	draw.Draw(dst, dst.Rect, img, bounds.Min, draw.Src)
	return buf, nil
}

// Scale returns a new buffer resized to width x height.
func (b *PixelBuffer) Scale(width, height int, method ScaleMethod) (*PixelBuffer, error) {
	dst, err := NewPixelBuffer(width, height)
	if err != nil {
		return nil, err
	}
	dstImg := dst.ToStdImage()
	src := b.ToStdImage()
	method.interpolator().Scale(dstImg, dstImg.Rect, src, src.Rect, draw.Src, nil)
	return dst, nil
}
