package imgdec

import (
	"fmt"
	"os"

	"github.com/dwclock/imgdec/internal/image"
)

// Service decodes BMP and PNG images into RGBA8888 buffers and optionally
// merges a second image into the first one's alpha channel.
//
// A Service owns the most recent result and a pool of spare buffers.
// Starting a decode releases the previous result back into the pool, so a
// sequence of same-sized decodes reuses one allocation.
//
// Thread safety: a Service is not safe for concurrent use. Independent
// Services share no state and may run in parallel.
type Service struct {
	registry *Registry
	pool     *image.Pool
	result   *PixelBuffer
}

// NewService creates a decoding service.
func NewService(opts ...ServiceOption) *Service {
	o := defaultServiceOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	return &Service{
		registry: o.registry,
		pool:     image.NewPool(o.poolSize),
	}
}

// DecodeFromBytes decodes body and, when blend is non-nil, copies the red
// channel of the decoded blend image into the alpha channel of the body.
//
// The blend image is decoded with the same decoder as the body and must
// have the same dimensions, otherwise ErrDimensionMismatch is returned.
// On any error no result is held and Result returns nil.
//
// The returned buffer is owned by the Service and stays valid until the
// next decode or Reset. Clone it to keep it longer.
func (s *Service) DecodeFromBytes(body, blend []byte, format Format, opts ...*Options) (*PixelBuffer, error) {
	s.Reset()
	o := resolveOptions(opts)

	dec, format, err := s.decoderFor(body, format)
	if err != nil {
		return nil, err
	}

	buf, err := dec.Decode(body, s.pool)
	if err != nil {
		return nil, fmt.Errorf("imgdec: decode %s: %w", format, err)
	}

	if blend != nil {
		if err := s.blend(dec, buf, blend); err != nil {
			s.pool.Put(buf)
			return nil, err
		}
	}

	if o.Flip {
		buf.FlipVertical()
	}

	s.result = buf
	Logger().Debug("imgdec: decoded",
		"format", format.String(),
		"width", buf.Width(),
		"height", buf.Height(),
		"blend", blend != nil,
		"flip", o.Flip)
	return buf, nil
}

// blend decodes mask and merges its red channel into the alpha of buf.
func (s *Service) blend(dec Decoder, buf *PixelBuffer, mask []byte) error {
	cfg, err := dec.DecodeConfig(mask)
	if err != nil {
		return fmt.Errorf("imgdec: decode blend: %w", err)
	}
	if cfg.Width != buf.Width() || cfg.Height != buf.Height() {
		Logger().Warn("imgdec: blend size differs from body",
			"body_width", buf.Width(), "body_height", buf.Height(),
			"blend_width", cfg.Width, "blend_height", cfg.Height)
		return fmt.Errorf("%w: body %dx%d, blend %dx%d",
			ErrDimensionMismatch, buf.Width(), buf.Height(), cfg.Width, cfg.Height)
	}

	m, err := dec.Decode(mask, s.pool)
	if err != nil {
		return fmt.Errorf("imgdec: decode blend: %w", err)
	}
	defer s.pool.Put(m)
	return buf.MergeAlpha(m)
}

// DecodeFromPaths reads bodyPath (and blendPath, unless it is empty) and
// decodes them like DecodeFromBytes.
func (s *Service) DecodeFromPaths(bodyPath, blendPath string, format Format, opts ...*Options) (*PixelBuffer, error) {
	s.Reset()

	body, err := os.ReadFile(bodyPath)
	if err != nil {
		return nil, fmt.Errorf("imgdec: read body: %w", err)
	}
	var blend []byte
	if blendPath != "" {
		if blend, err = os.ReadFile(blendPath); err != nil {
			return nil, fmt.Errorf("imgdec: read blend: %w", err)
		}
	}
	return s.DecodeFromBytes(body, blend, format, opts...)
}

// decoderFor resolves format (detecting it when FormatAuto) to a decoder.
func (s *Service) decoderFor(data []byte, format Format) (Decoder, Format, error) {
	if format == FormatAuto {
		var err error
		if format, err = DetectFormat(data); err != nil {
			return nil, format, err
		}
	}
	name := format.String()
	if !s.registry.Has(name) {
		return nil, format, fmt.Errorf("%w: no decoder for %s", ErrUnsupportedFormat, name)
	}
	dec := s.registry.Get(name)
	if dec == nil {
		return nil, format, fmt.Errorf("%w: no decoder for %s", ErrUnsupportedFormat, name)
	}
	return dec, format, nil
}

// Result returns the buffer from the most recent successful decode, or nil
// if the last decode failed or none has run.
func (s *Service) Result() *PixelBuffer {
	return s.result
}

// RGBA returns the pixel data and dimensions of the current result.
// All values are zero when there is no result.
func (s *Service) RGBA() (data []byte, width, height int) {
	if s.result == nil {
		return nil, 0, 0
	}
	return s.result.Data(), s.result.Width(), s.result.Height()
}

// Reset releases the current result into the pool.
func (s *Service) Reset() {
	if s.result != nil {
		s.pool.Put(s.result)
		s.result = nil
	}
}
