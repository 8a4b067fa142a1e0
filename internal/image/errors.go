package image

import "errors"

// Buffer errors.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive
	// or the pixel count exceeds MaxPixels.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// Decode errors shared by the BMP and PNG decoders.
//
// Decoders return these sentinels directly or wrapped with extra detail
// (bit depth, color type, offsets); match them with errors.Is.
var (
	// ErrNotABitmap is returned when the input lacks the "BM" signature.
	ErrNotABitmap = errors.New("image: not a BMP file")

	// ErrNotAPng is returned when the input lacks the 8-byte PNG signature.
	ErrNotAPng = errors.New("image: not a PNG file")

	// ErrUnsupportedHeaderVariant is returned for BMP info headers other than
	// the 40-byte Windows and 12-byte OS/2 layouts.
	ErrUnsupportedHeaderVariant = errors.New("image: unsupported BMP header variant")

	// ErrUnsupportedBitDepth is returned when the bit depth is not handled
	// for the image's pixel layout.
	ErrUnsupportedBitDepth = errors.New("image: unsupported bit depth")

	// ErrUnsupportedColorType is returned for PNG color types outside the PNG standard set.
	ErrUnsupportedColorType = errors.New("image: unsupported color type")

	// ErrUnsupportedFormat is returned for valid but unimplemented layouts
	// (PNG grayscale+alpha, interlacing, BMP run-length compression) and
	// for unknown format tags.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrPaletteMissing is returned when a palette PNG has no PLTE chunk.
	ErrPaletteMissing = errors.New("image: palette missing")

	// ErrDimensionMismatch is returned when a blend image does not match
	// the body image's width and height.
	ErrDimensionMismatch = errors.New("image: dimension mismatch")

	// ErrTruncatedInput is returned when a read would go past the end of the input.
	ErrTruncatedInput = errors.New("image: truncated input")

	// ErrCorruptInput is returned for structurally invalid input such as a
	// bad chunk checksum, a broken zlib stream or an unknown filter type.
	ErrCorruptInput = errors.New("image: corrupt input")
)
