// Package imgdec decodes BMP and PNG files into RGBA8888 pixel buffers.
//
// # Overview
//
// imgdec turns the raw bytes of a bitmap or PNG image into one canonical
// in-memory layout: rows top-to-bottom, four bytes per pixel in R, G, B, A
// order, straight alpha. A second image of the same size can be merged into
// the first one's alpha channel ("blend"), which is how glyph images with a
// separate coverage mask are prepared for display.
//
// # Quick Start
//
//	import "github.com/dwclock/imgdec"
//
//	svc := imgdec.NewService()
//
//	// Decode a glyph and use the red channel of its mask as alpha
//	buf, err := svc.DecodeFromPaths("image/1_one.png", "image/1_one_mask.png", imgdec.FormatPNG)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	data, w, h := svc.RGBA()
//
// # Supported Inputs
//
//   - BMP: 40-byte Windows and 12-byte OS/2 headers, bottom-up rows,
//     uncompressed 1/4/8-bit palette and 24/32-bit truecolor
//   - PNG: non-interlaced grayscale (1/2/4/8-bit), palette (1/2/4/8-bit),
//     8-bit truecolor and 8-bit truecolor with alpha
//
// Grayscale+alpha and 16-bit PNGs, interlaced PNGs and run-length encoded
// bitmaps fail with an error rather than decoding partially.
//
// # Buffer Ownership
//
// A Service owns the buffer it returns. The next decode on the same Service
// (or Reset) recycles it, so callers that keep results across decodes must
// Clone them. DecodeBatch returns caller-owned copies.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Service, Format, Registry, texture hand-off, DecodeBatch
//   - Internal: binutil (bounds-checked reads), bmp, png, image (buffers)
//   - Tools: cmd/imgdecode
package imgdec

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
