package imgdec

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dwclock/imgdec/internal/png"
)

// Format tags the container format of an input.
type Format uint8

const (
	// FormatAuto detects the format from the input's magic bytes.
	FormatAuto Format = iota
	// FormatBMP is a Windows or OS/2 bitmap.
	FormatBMP
	// FormatPNG is a Portable Network Graphics image.
	FormatPNG
)

// String returns the registry name of the format.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatBMP:
		return "bmp"
	case FormatPNG:
		return "png"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// ParseFormat converts a name such as "png" or "BMP" to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "bmp", "dib":
		return FormatBMP, nil
	case "png":
		return FormatPNG, nil
	default:
		return FormatAuto, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath guesses the format from a file extension.
// Unknown extensions yield FormatAuto.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatAuto
	}
	return f
}

// DetectFormat identifies data by its magic bytes.
func DetectFormat(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, []byte(png.Signature)):
		return FormatPNG, nil
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP, nil
	default:
		return FormatAuto, fmt.Errorf("%w: unrecognized signature", ErrUnsupportedFormat)
	}
}
