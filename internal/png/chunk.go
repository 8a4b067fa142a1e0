package png

import (
	"bytes"
	"fmt"
	"hash/crc32"

	"github.com/dwclock/imgdec/internal/binutil"
	"github.com/dwclock/imgdec/internal/image"
)

// Signature is the 8-byte magic that starts every PNG file.
const Signature = "\x89PNG\r\n\x1a\n"

const (
	chunkIHDR = "IHDR"
	chunkPLTE = "PLTE"
	chunkIDAT = "IDAT"
	chunkIEND = "IEND"

	maxChunkLen = 0x7fffffff
)

// chunks holds the critical chunks of a PNG stream.
type chunks struct {
	ihdr []byte
	plte []byte
	idat []byte // concatenation of every IDAT payload
}

// readChunks walks the chunk list after the signature, verifying each CRC,
// until IEND. Ancillary chunks are checked and skipped.
func readChunks(data []byte) (*chunks, error) {
	var (
		c     chunks
		idat  bytes.Buffer
		off   = len(Signature)
		first = true
	)
	for {
		length, err := binutil.U32BE(data, off)
		if err != nil {
			return nil, fmt.Errorf("png: chunk length: %w", err)
		}
		if length > maxChunkLen {
			return nil, fmt.Errorf("%w: chunk length %d", image.ErrCorruptInput, length)
		}
		// type and payload are covered by the CRC
		body, err := binutil.Slice(data, off+4, 4+int(length))
		if err != nil {
			return nil, fmt.Errorf("png: chunk at %d: %w", off, err)
		}
		sum, err := binutil.U32BE(data, off+8+int(length))
		if err != nil {
			return nil, fmt.Errorf("png: chunk at %d: %w", off, err)
		}
		typ, payload := string(body[:4]), body[4:]
		if crc32.ChecksumIEEE(body) != sum {
			return nil, fmt.Errorf("%w: %s checksum mismatch", image.ErrCorruptInput, typ)
		}
		off += 12 + int(length)

		if first && typ != chunkIHDR {
			return nil, fmt.Errorf("%w: first chunk is %s, want IHDR", image.ErrCorruptInput, typ)
		}
		first = false

		switch typ {
		case chunkIHDR:
			c.ihdr = payload
		case chunkPLTE:
			c.plte = payload
		case chunkIDAT:
			idat.Write(payload)
		case chunkIEND:
			c.idat = idat.Bytes()
			return &c, nil
		}
	}
}
