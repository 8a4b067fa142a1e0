// Package image provides the RGBA8888 pixel buffer produced by the decoders,
// a per-owner buffer pool and conversions to and from the standard library
// image types.
package image

// BytesPerPixel is the size of one RGBA8888 pixel.
const BytesPerPixel = 4

// MaxPixels bounds width*height of any buffer (1 GiB of RGBA8888).
const MaxPixels = 1 << 28

// PixelBuffer is a decoded RGBA8888 image.
//
// Pixels are stored row-major, top-to-bottom, with channel order R, G, B, A.
// The data slice always holds exactly Width*Height*4 bytes.
//
// Thread safety: PixelBuffer is safe for concurrent read access. Writes
// require external synchronization.
type PixelBuffer struct {
	data   []byte
	width  int
	height int
}

// NewPixelBuffer allocates a zeroed buffer of the given dimensions.
// Sizes above MaxPixels fail with ErrInvalidDimensions.
func NewPixelBuffer(width, height int) (*PixelBuffer, error) {
	if !ValidSize(width, height) {
		return nil, ErrInvalidDimensions
	}
	return &PixelBuffer{
		data:   make([]byte, width*height*BytesPerPixel),
		width:  width,
		height: height,
	}, nil
}

// ValidSize reports whether a width x height buffer may be allocated.
func ValidSize(width, height int) bool {
	if width <= 0 || height <= 0 || width > MaxPixels || height > MaxPixels {
		return false
	}
	return int64(width)*int64(height) <= MaxPixels
}

// Clone creates a deep copy of the buffer.
func (b *PixelBuffer) Clone() *PixelBuffer {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &PixelBuffer{data: data, width: b.width, height: b.height}
}

// Width returns the image width in pixels.
func (b *PixelBuffer) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *PixelBuffer) Height() int {
	return b.height
}

// Bounds returns the image dimensions as (width, height).
func (b *PixelBuffer) Bounds() (int, int) {
	return b.width, b.height
}

// Stride returns the number of bytes per row.
func (b *PixelBuffer) Stride() int {
	return b.width * BytesPerPixel
}

// Data returns the raw RGBA pixel data.
func (b *PixelBuffer) Data() []byte {
	return b.data
}

// ByteSize returns the total size of the pixel data in bytes.
func (b *PixelBuffer) ByteSize() int {
	return len(b.data)
}

// SameSize reports whether o has the same width and height as b.
func (b *PixelBuffer) SameSize(o *PixelBuffer) bool {
	return o != nil && b.width == o.width && b.height == o.height
}

// RowBytes returns the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *PixelBuffer) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.Stride()
	return b.data[start : start+b.Stride()]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *PixelBuffer) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.Stride() + x*BytesPerPixel
}

// RGBAAt returns the color at (x, y).
// Returns (0,0,0,0) if coordinates are out of bounds.
func (b *PixelBuffer) RGBAAt(x, y int) (r, g, bl, a uint8) {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return 0, 0, 0, 0
	}
	p := b.data[off : off+BytesPerPixel : off+BytesPerPixel]
	return p[0], p[1], p[2], p[3]
}

// SetRGBA sets the color at (x, y).
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *PixelBuffer) SetRGBA(x, y int, r, g, bl, a uint8) error {
	off := b.PixelOffset(x, y)
	if off < 0 {
		return ErrOutOfBounds
	}
	b.data[off] = r
	b.data[off+1] = g
	b.data[off+2] = bl
	b.data[off+3] = a
	return nil
}

// Clear sets all pixels to transparent black.
func (b *PixelBuffer) Clear() {
	clear(b.data)
}

// MergeAlpha copies the red channel of mask into the alpha channel of b.
// Returns ErrDimensionMismatch if the sizes differ.
func (b *PixelBuffer) MergeAlpha(mask *PixelBuffer) error {
	if !b.SameSize(mask) {
		return ErrDimensionMismatch
	}
	for off := 0; off < len(b.data); off += BytesPerPixel {
		b.data[off+3] = mask.data[off]
	}
	return nil
}

// FlipVertical reverses the row order in place.
func (b *PixelBuffer) FlipVertical() {
	stride := b.Stride()
	tmp := make([]byte, stride)
	for top, bottom := 0, b.height-1; top < bottom; top, bottom = top+1, bottom-1 {
		t := b.data[top*stride : (top+1)*stride]
		u := b.data[bottom*stride : (bottom+1)*stride]
		copy(tmp, t)
		copy(t, u)
		copy(u, tmp)
	}
}
