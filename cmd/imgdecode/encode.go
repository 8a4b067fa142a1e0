package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/dwclock/imgdec"
)

var errUnsupportedEncoding = errors.New("unsupported output encoding")

func encodePNG(w io.Writer, buf *imgdec.PixelBuffer) error {
	if err := png.Encode(w, buf.ToStdImage()); err != nil {
		return fmt.Errorf("encode PNG: %w", err)
	}
	return nil
}

// encodeBMP writes an uncompressed bitmap, 24-bit when fully opaque and
// 32-bit otherwise.
func encodeBMP(w io.Writer, buf *imgdec.PixelBuffer) error {
	if err := bmp.Encode(w, buf.ToStdImage()); err != nil {
		return fmt.Errorf("encode BMP: %w", err)
	}
	return nil
}

// save writes buf to path, choosing the encoding from the extension.
func save(path string, buf *imgdec.PixelBuffer) error {
	var encode func(io.Writer, *imgdec.PixelBuffer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = encodePNG
	case ".bmp":
		encode = encodeBMP
	default:
		return fmt.Errorf("%w: %q", errUnsupportedEncoding, filepath.Ext(path))
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if err := encode(f, buf); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
