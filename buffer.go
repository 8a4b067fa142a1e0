package imgdec

import (
	stdimage "image"

	"github.com/dwclock/imgdec/internal/image"
)

// PixelBuffer is a decoded RGBA8888 image. See the methods of
// internal/image.PixelBuffer: Width, Height, Data, RowBytes, RGBAAt.
type PixelBuffer = image.PixelBuffer

// Pool recycles PixelBuffers of identical dimensions. A nil *Pool is valid.
type Pool = image.Pool

// NewPool returns a pool keeping at most maxPerBucket spare buffers per size.
func NewPool(maxPerBucket int) *Pool {
	return image.NewPool(maxPerBucket)
}

// ScaleMethod selects the interpolator for PixelBuffer.Scale.
type ScaleMethod = image.ScaleMethod

// Scale methods.
const (
	ScaleNearest    = image.ScaleNearest
	ScaleCatmullRom = image.ScaleCatmullRom
)

// FromStdImage copies a standard library image into a new PixelBuffer.
func FromStdImage(img stdimage.Image) (*PixelBuffer, error) {
	return image.FromStdImage(img)
}
