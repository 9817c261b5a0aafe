package engine

import (
	"context"

	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
)

type UpsamplerOptions struct {
	Outscale           float64
	AlphaThroughEngine bool
	FaceEnhance        bool
}

// Upsampler wraps an engine with everything which happens around the
// network: alpha plane handling, face routing and the final resize to the
// requested output scale.
type Upsampler struct {
	engine      Engine
	faces       FaceEnhancer
	outscale    float64
	alphaEngine bool
}

// NewUpsampler enables face routing only when asked for, the engine can
// restore faces and the model is not an anime model.
func NewUpsampler(e Engine, m Model, opts UpsamplerOptions) *Upsampler {
	u := &Upsampler{engine: e, outscale: opts.Outscale, alphaEngine: opts.AlphaThroughEngine}
	if opts.FaceEnhance {
		switch faces, ok := e.(FaceEnhancer); {
		case m.IsAnime():
			log.Warn("Face enhancement is not supported by anime model %s, turning it off", m)
		case !ok:
			log.Warn("Engine cannot restore faces, face enhancement is turned off")
		default:
			u.faces = faces
		}
	}
	return u
}

func (u *Upsampler) FaceEnhance() bool { return u.faces != nil }

func (u *Upsampler) Enhance(ctx context.Context, img videoframe.Image) (videoframe.Image, error) {
	rgb := img.RGB()

	var out videoframe.Image
	var err error
	if u.faces != nil {
		out, err = u.faces.EnhanceFaces(ctx, rgb)
	} else {
		out, err = u.engine.Enhance(ctx, rgb)
	}
	if err != nil {
		return videoframe.Image{}, err
	}

	if img.HasAlpha() {
		out, err = u.mergeAlpha(ctx, img, out)
		if err != nil {
			return videoframe.Image{}, err
		}
	}

	target := img.Dimensions().Scaled(u.outscale)
	if out.Dimensions() != target {
		out = ResizeLanczos(out, target)
	}
	return out, nil
}

func (u *Upsampler) mergeAlpha(ctx context.Context, src, rgb videoframe.Image) (videoframe.Image, error) {
	alpha := src.AlphaAsRGB()
	var upscaled videoframe.Image
	if u.alphaEngine {
		var err error
		upscaled, err = u.engine.Enhance(ctx, alpha)
		if err != nil {
			return videoframe.Image{}, err
		}
	}
	if upscaled.Dimensions() != rgb.Dimensions() {
		upscaled = ResizeBicubic(alpha, rgb.Dimensions())
	}
	return videoframe.WithAlpha(rgb, upscaled)
}

func (u *Upsampler) Synchronize() error {
	return u.engine.Synchronize()
}
