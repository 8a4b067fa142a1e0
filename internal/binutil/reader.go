// Package binutil extracts fixed-width integers and sub-byte samples from
// byte slices with explicit bounds checks.
//
// Every accessor returns image.ErrTruncatedInput instead of reading past the
// end of the slice, so decoders can treat short files like any other
// malformed input.
package binutil

import (
	"encoding/binary"
	"fmt"

	"github.com/dwclock/imgdec/internal/image"
)

// check reports whether n bytes are readable at off.
func check(buf []byte, off, n int) error {
	if off < 0 || n > len(buf) || off > len(buf)-n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", image.ErrTruncatedInput, n, off, len(buf))
	}
	return nil
}

// U8 returns the byte at off.
func U8(buf []byte, off int) (uint8, error) {
	if err := check(buf, off, 1); err != nil {
		return 0, err
	}
	return buf[off], nil
}

// U16 returns the little-endian uint16 at off.
func U16(buf []byte, off int) (uint16, error) {
	if err := check(buf, off, 2); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[off:]), nil
}

// U32 returns the little-endian uint32 at off.
func U32(buf []byte, off int) (uint32, error) {
	if err := check(buf, off, 4); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[off:]), nil
}

// I32 returns the little-endian int32 at off.
func I32(buf []byte, off int) (int32, error) {
	v, err := U32(buf, off)
	return int32(v), err
}

// U32BE returns the big-endian uint32 at off.
func U32BE(buf []byte, off int) (uint32, error) {
	if err := check(buf, off, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[off:]), nil
}

// Slice returns buf[off:off+n].
func Slice(buf []byte, off, n int) ([]byte, error) {
	if err := check(buf, off, n); err != nil {
		return nil, err
	}
	return buf[off : off+n : off+n], nil
}
