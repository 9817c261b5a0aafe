package engine

import (
	"context"

	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
)

// Bicubic is a CPU engine which upsamples by the model's net scale without
// a network. Its output is deterministic.
type Bicubic struct {
	scale int
}

func NewBicubic(m Model) *Bicubic {
	return &Bicubic{scale: m.NetScale()}
}

func (b *Bicubic) Enhance(ctx context.Context, img videoframe.Image) (videoframe.Image, error) {
	if err := ctx.Err(); err != nil {
		return videoframe.Image{}, err
	}
	return ResizeBicubic(img, videoframe.Dimensions{W: img.W * b.scale, H: img.H * b.scale}), nil
}

func (b *Bicubic) Synchronize() error { return nil }
func (b *Bicubic) Close() error       { return nil }
