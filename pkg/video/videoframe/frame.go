package videoframe

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Dimensions struct {
	W, H int
}

// Scaled returns the dimensions multiplied by outscale, rounded to the
// nearest pixel.
func (d Dimensions) Scaled(outscale float64) Dimensions {
	return Dimensions{
		W: roundPixels(float64(d.W) * outscale),
		H: roundPixels(float64(d.H) * outscale),
	}
}

// RGBSize is the byte length of one packed rgb24 frame of these dimensions.
func (d Dimensions) RGBSize() int {
	return d.W * d.H * 3
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.W, d.H)
}

// Frame is one decoded picture of the input sequence. Its Image is not
// modified once it has been handed to the enhancement stage.
type Frame struct {
	Index  int
	Path   string
	Offset int64
	Image  Image
}

func (f Frame) HasAlpha() bool {
	return f.Image.HasAlpha()
}

// Name is the source file name without its extension, or a zero padded
// index for frames which came off a decode stream.
func (f Frame) Name() string {
	if len(f.Path) == 0 {
		return fmt.Sprintf("frame%08d", f.Index+1)
	}
	base := filepath.Base(f.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Ext is the source extension without the leading dot.
func (f Frame) Ext() string {
	return strings.TrimPrefix(filepath.Ext(f.Path), ".")
}

// Source identifies the frame in log lines.
func (f Frame) Source() string {
	if len(f.Path) > 0 {
		return f.Path
	}
	return fmt.Sprintf("stream offset %d", f.Offset)
}

func roundPixels(v float64) int {
	if v < 0 {
		return 0
	}
	return int(v + 0.5)
}
