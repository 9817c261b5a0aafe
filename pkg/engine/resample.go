package engine

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"golang.org/x/image/draw"
)

// ResizeBicubic resamples with a Catmull-Rom kernel.
func ResizeBicubic(img videoframe.Image, d videoframe.Dimensions) videoframe.Image {
	if img.Dimensions() == d {
		return img.Clone()
	}
	src := img.ToNRGBA()
	dst := image.NewNRGBA(image.Rect(0, 0, d.W, d.H))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return videoframe.FromImageWithChannels(dst, img.Channels)
}

// ResizeLanczos resamples with a Lanczos kernel.
func ResizeLanczos(img videoframe.Image, d videoframe.Dimensions) videoframe.Image {
	if img.Dimensions() == d {
		return img.Clone()
	}
	resized := imaging.Resize(img.ToNRGBA(), d.W, d.H, imaging.Lanczos)
	return videoframe.FromImageWithChannels(resized, img.Channels)
}
