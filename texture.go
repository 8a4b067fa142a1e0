package imgdec

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// ErrNoTextureCreator is returned by RenderTo when the drawer has no
// texture creator.
var ErrNoTextureCreator = errors.New("imgdec: drawer has no texture creator")

// TextureDescriptor describes a sampled 2D RGBA8 texture sized to buf.
func TextureDescriptor(buf *PixelBuffer, label string) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label: label,
		Size: gputypes.Extent3D{
			Width:              uint32(buf.Width()),
			Height:             uint32(buf.Height()),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
	}
}

// TextureDataLayout describes the tightly packed rows of buf for a
// texture write.
func TextureDataLayout(buf *PixelBuffer) gputypes.TextureDataLayout {
	return gputypes.TextureDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(buf.Stride()),
		RowsPerImage: uint32(buf.Height()),
	}
}

// Upload creates a GPU texture holding buf.
// The decoded pixels are straight (not premultiplied) alpha.
func Upload(creator gpucontext.TextureCreator, buf *PixelBuffer) (gpucontext.Texture, error) {
	tex, err := creator.NewTextureFromRGBA(buf.Width(), buf.Height(), buf.Data())
	if err != nil {
		return nil, fmt.Errorf("imgdec: NewTextureFromRGBA failed: %w", err)
	}
	if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(false)
	}
	return tex, nil
}

// UpdateTexture replaces the contents of tex with buf.
// tex must implement gpucontext.TextureUpdater and have buf's dimensions.
func UpdateTexture(tex gpucontext.Texture, buf *PixelBuffer) error {
	if tex.Width() != buf.Width() || tex.Height() != buf.Height() {
		return fmt.Errorf("%w: texture %dx%d, image %dx%d",
			ErrDimensionMismatch, tex.Width(), tex.Height(), buf.Width(), buf.Height())
	}
	u, ok := tex.(gpucontext.TextureUpdater)
	if !ok {
		return fmt.Errorf("imgdec: texture %T does not implement gpucontext.TextureUpdater", tex)
	}
	if err := u.UpdateData(buf.Data()); err != nil {
		return fmt.Errorf("imgdec: UpdateData failed: %w", err)
	}
	return nil
}

// RenderTo uploads buf through the drawer's texture creator and draws it
// with its top-left corner at (x, y).
func RenderTo(dc gpucontext.TextureDrawer, buf *PixelBuffer, x, y float32) (gpucontext.Texture, error) {
	creator := dc.TextureCreator()
	if creator == nil {
		return nil, ErrNoTextureCreator
	}
	tex, err := Upload(creator, buf)
	if err != nil {
		return nil, err
	}
	if err := dc.DrawTexture(tex, x, y); err != nil {
		return tex, fmt.Errorf("imgdec: DrawTexture failed: %w", err)
	}
	return tex, nil
}
