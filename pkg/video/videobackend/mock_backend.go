package videobackend

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"path/filepath"
	"sort"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

const (
	mockFrameWidth  = 160
	mockFrameHeight = 120
	mockLabelSize   = 14
)

// MockBackend renders a synthetic frame labelled with the file name for
// every read and keeps every write in memory.
type MockBackend struct {
	mu      sync.Mutex
	canvas  image.Image
	written map[string]videoframe.Image
	reads   []string
}

func (b *MockBackend) ReadImage(path string) (videoframe.Image, error) {
	b.mu.Lock()
	if b.canvas == nil {
		b.canvas = renderBaseFrameCanvas(mockFrameWidth, mockFrameHeight)
	}
	canvas := b.canvas
	b.reads = append(b.reads, path)
	b.mu.Unlock()

	img, err := drawLabelOntoCanvasClone(canvas, filepath.Base(path))
	if err != nil {
		return videoframe.Image{}, err
	}
	return videoframe.FromImageWithChannels(img, 3), nil
}

func (b *MockBackend) WriteImage(path string, img videoframe.Image) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.written[path] = img.Clone()
	return nil
}

// Written returns the paths written so far in lexical order.
func (b *MockBackend) Written() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	paths := make([]string, 0, len(b.written))
	for p := range b.written {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (b *MockBackend) Image(path string) (videoframe.Image, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	img, ok := b.written[path]
	return img, ok
}

// Reads returns every path read in the order the reads happened.
func (b *MockBackend) Reads() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string{}, b.reads...)
}

func drawLabelOntoCanvasClone(base image.Image, label string) (image.Image, error) {
	baseClone := cloneImage(base)
	baseline := mockFrameHeight / 2
	// the circles overlap to white behind the label, so it sits on a band
	band := image.Rect(0, baseline-mockLabelSize, baseClone.Bounds().Dx(), baseline+mockLabelSize/2)
	draw.Draw(baseClone, band, image.Black, image.Point{}, draw.Src)
	if err := drawText(baseClone, 4, baseline, label); err != nil {
		return nil, xerror.Errorf("unable to draw label onto mock frame: %w", err)
	}
	return baseClone, nil
}

func renderBaseFrameCanvas(w, h int) image.Image {
	var hw, hh float64 = float64(w / 2), float64(h / 2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), float64(h) * 0.75}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), float64(h) * 0.75}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), float64(h) * 0.75}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	fontFace, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return err
	}
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    mockLabelSize,
			Hinting: font.HintingFull,
		}),
	}
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y),
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	d := math.Sqrt(dx*dx+dy*dy) / c.R
	if d > 1 {
		return 0
	}
	return 255
}
