package videoframe

import (
	"image"
	"image/color"

	"github.com/tauraamui/xerror"
)

// Image is a packed, interleaved, row major 8 bit pixel buffer. Channels is
// 3 for RGB or 4 for RGBA.
type Image struct {
	W, H     int
	Channels int
	Pix      []byte
}

func NewImage(w, h, channels int) Image {
	return Image{W: w, H: h, Channels: channels, Pix: make([]byte, w*h*channels)}
}

// NewRGBFromBytes wraps an rgb24 buffer, failing if its length does not
// match the given dimensions.
func NewRGBFromBytes(d Dimensions, pix []byte) (Image, error) {
	if len(pix) != d.RGBSize() {
		return Image{}, xerror.Errorf("rgb24 buffer of %d bytes does not match %s", len(pix), d)
	}
	return Image{W: d.W, H: d.H, Channels: 3, Pix: pix}, nil
}

func (im Image) Dimensions() Dimensions {
	return Dimensions{W: im.W, H: im.H}
}

func (im Image) HasAlpha() bool {
	return im.Channels == 4
}

func (im Image) Empty() bool {
	return im.W == 0 || im.H == 0 || len(im.Pix) == 0
}

func (im Image) Clone() Image {
	pix := make([]byte, len(im.Pix))
	copy(pix, im.Pix)
	return Image{W: im.W, H: im.H, Channels: im.Channels, Pix: pix}
}

// RGB returns the colour channels only, sharing nothing with im.
func (im Image) RGB() Image {
	if im.Channels == 3 {
		return im.Clone()
	}
	out := NewImage(im.W, im.H, 3)
	for i, j := 0, 0; i < len(im.Pix); i, j = i+im.Channels, j+3 {
		copy(out.Pix[j:j+3], im.Pix[i:i+3])
	}
	return out
}

// AlphaAsRGB replicates the alpha channel into all three colour channels so
// that it can be pushed through an RGB only enhancer.
func (im Image) AlphaAsRGB() Image {
	out := NewImage(im.W, im.H, 3)
	if !im.HasAlpha() {
		for i := range out.Pix {
			out.Pix[i] = 0xff
		}
		return out
	}
	for i, j := 3, 0; i < len(im.Pix); i, j = i+4, j+3 {
		a := im.Pix[i]
		out.Pix[j], out.Pix[j+1], out.Pix[j+2] = a, a, a
	}
	return out
}

// WithAlpha merges the first channel of alpha into rgb as a fourth channel.
// Both images must share dimensions.
func WithAlpha(rgb, alpha Image) (Image, error) {
	if rgb.W != alpha.W || rgb.H != alpha.H {
		return Image{}, xerror.Errorf("alpha plane %s does not match colour plane %s", alpha.Dimensions(), rgb.Dimensions())
	}
	out := NewImage(rgb.W, rgb.H, 4)
	px := rgb.W * rgb.H
	for p := 0; p < px; p++ {
		copy(out.Pix[p*4:p*4+3], rgb.Pix[p*rgb.Channels:p*rgb.Channels+3])
		out.Pix[p*4+3] = alpha.Pix[p*alpha.Channels]
	}
	return out, nil
}

// ToNRGBA converts to a standard library image for codecs and resamplers.
func (im Image) ToNRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, im.W, im.H))
	px := im.W * im.H
	for p := 0; p < px; p++ {
		s := im.Pix[p*im.Channels : p*im.Channels+im.Channels]
		d := dst.Pix[p*4 : p*4+4]
		d[0], d[1], d[2] = s[0], s[1], s[2]
		if im.Channels == 4 {
			d[3] = s[3]
		} else {
			d[3] = 0xff
		}
	}
	return dst
}

// FromImage packs any image.Image, keeping an alpha channel only when the
// source carries one.
func FromImage(src image.Image) Image {
	channels := 3
	if HasAlphaChannel(src) {
		channels = 4
	}
	return FromImageWithChannels(src, channels)
}

func FromImageWithChannels(src image.Image, channels int) Image {
	b := src.Bounds()
	out := NewImage(b.Dx(), b.Dy(), channels)

	if nrgba, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			start := nrgba.PixOffset(b.Min.X, b.Min.Y+y)
			row := nrgba.Pix[start : start+b.Dx()*4]
			for x := 0; x < b.Dx(); x++ {
				o := (y*b.Dx() + x) * channels
				copy(out.Pix[o:o+channels], row[x*4:x*4+channels])
			}
		}
		return out
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			o := (y*b.Dx() + x) * channels
			out.Pix[o], out.Pix[o+1], out.Pix[o+2] = c.R, c.G, c.B
			if channels == 4 {
				out.Pix[o+3] = c.A
			}
		}
	}
	return out
}

// HasAlphaChannel reports whether the decoded source carries an alpha
// channel. Non alpha formats such as truecolour PNG and JPEG decode to
// types which never do.
func HasAlphaChannel(src image.Image) bool {
	switch img := src.(type) {
	case *image.NRGBA, *image.NRGBA64:
		return true
	case *image.Paletted:
		for _, c := range img.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
