package imgdec

import "github.com/dwclock/imgdec/internal/image"

// Decode errors. Returned errors wrap one of these; match with errors.Is.
var (
	ErrNotABitmap               = image.ErrNotABitmap
	ErrNotAPng                  = image.ErrNotAPng
	ErrUnsupportedHeaderVariant = image.ErrUnsupportedHeaderVariant
	ErrUnsupportedBitDepth      = image.ErrUnsupportedBitDepth
	ErrUnsupportedColorType     = image.ErrUnsupportedColorType
	ErrUnsupportedFormat        = image.ErrUnsupportedFormat
	ErrPaletteMissing           = image.ErrPaletteMissing
	ErrDimensionMismatch        = image.ErrDimensionMismatch
	ErrTruncatedInput           = image.ErrTruncatedInput
	ErrCorruptInput             = image.ErrCorruptInput
	ErrInvalidDimensions        = image.ErrInvalidDimensions
)
