package imgdec

import (
	stdimage "image"

	"github.com/gogpu/gpucontext"

	"github.com/dwclock/imgdec/internal/bmp"
	"github.com/dwclock/imgdec/internal/png"
)

// Decoder converts one encoded image into a PixelBuffer.
//
// Decode draws its output from pool, which may be nil. Implementations must
// not keep references to data or the returned buffer.
type Decoder interface {
	DecodeConfig(data []byte) (stdimage.Config, error)
	Decode(data []byte, pool *Pool) (*PixelBuffer, error)
}

// Registry maps format names ("bmp", "png") to decoder factories.
type Registry = gpucontext.Registry[Decoder]

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return gpucontext.NewRegistry[Decoder]()
}

// DefaultRegistry returns a new registry holding the BMP and PNG decoders.
// Each call builds a fresh registry; there is no shared global instance.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(FormatBMP.String(), func() Decoder { return bmpDecoder{} })
	r.Register(FormatPNG.String(), func() Decoder { return pngDecoder{} })
	return r
}

type bmpDecoder struct{}

func (bmpDecoder) DecodeConfig(data []byte) (stdimage.Config, error) {
	return bmp.DecodeConfig(data)
}

func (bmpDecoder) Decode(data []byte, pool *Pool) (*PixelBuffer, error) {
	return bmp.DecodeBytes(data, pool)
}

type pngDecoder struct{}

func (pngDecoder) DecodeConfig(data []byte) (stdimage.Config, error) {
	return png.DecodeConfig(data)
}

func (pngDecoder) Decode(data []byte, pool *Pool) (*PixelBuffer, error) {
	return png.DecodeBytes(data, pool)
}
