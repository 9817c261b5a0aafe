package videobackend_test

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/tauraamui/vidupscale/pkg/video/videobackend"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
)

func TestVideoBackendDefaultBackend(t *testing.T) {
	is := is.New(t)
	is.True(videobackend.Default() != nil)
}

func TestResolveFallsBackToImaging(t *testing.T) {
	is := is.New(t)
	_, isMock := videobackend.Resolve("mock", afero.NewMemMapFs()).(*videobackend.MockBackend)
	is.True(isMock)
	_, isMock = videobackend.Resolve("", afero.NewMemMapFs()).(*videobackend.MockBackend)
	is.True(!isMock)
}

func TestImagingBackendWritesAndReadsPNGWithAlpha(t *testing.T) {
	is := is.New(t)
	fs := afero.NewMemMapFs()
	backend := videobackend.Imaging(fs)

	img := videoframe.Image{W: 2, H: 1, Channels: 4, Pix: []byte{
		255, 0, 0, 128,
		0, 255, 0, 255,
	}}
	is.NoErr(backend.WriteImage("/out/frames/a_out.png", img))

	read, err := backend.ReadImage("/out/frames/a_out.png")
	is.NoErr(err)
	is.Equal(read, img)
}

func TestImagingBackendReadsOpaquePNGAsRGB(t *testing.T) {
	is := is.New(t)
	fs := afero.NewMemMapFs()

	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	src.Set(2, 1, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	f, err := fs.Create("/in/frame.png")
	is.NoErr(err)
	is.NoErr(png.Encode(f, src))
	is.NoErr(f.Close())

	read, err := videobackend.Imaging(fs).ReadImage("/in/frame.png")
	is.NoErr(err)
	is.Equal(read.Channels, 3)
	is.Equal(read.Dimensions(), videoframe.Dimensions{W: 3, H: 2})
	is.Equal(read.Pix[15:18], []byte{10, 20, 30})
}

func TestImagingBackendRejectsUnknownExtension(t *testing.T) {
	is := is.New(t)
	err := videobackend.Imaging(afero.NewMemMapFs()).WriteImage("/out/a_out.xyz", videoframe.NewImage(1, 1, 3))
	is.True(err != nil)
}

func TestImagingBackendReadMissingFileFails(t *testing.T) {
	is := is.New(t)
	_, err := videobackend.Imaging(afero.NewMemMapFs()).ReadImage("/nope.png")
	is.True(err != nil)
}

func TestMockBackendRendersLabelledFramesAndRecordsWrites(t *testing.T) {
	is := is.New(t)
	backend := videobackend.Mock()

	first, err := backend.ReadImage("/in/frame_01.png")
	is.NoErr(err)
	second, err := backend.ReadImage("/in/frame_02.png")
	is.NoErr(err)

	is.Equal(first.Dimensions(), videoframe.Dimensions{W: 160, H: 120})
	is.Equal(first.Channels, 3)
	is.True(string(first.Pix) != string(second.Pix)) // labels differ

	is.NoErr(backend.WriteImage("/out/b.png", second))
	is.NoErr(backend.WriteImage("/out/a.png", first))
	is.Equal(backend.Written(), []string{"/out/a.png", "/out/b.png"})
	is.Equal(backend.Reads(), []string{"/in/frame_01.png", "/in/frame_02.png"})

	stored, ok := backend.Image("/out/a.png")
	is.True(ok)
	is.Equal(stored, first)
}

func TestMockBackendLabelBandDiffersPerFile(t *testing.T) {
	is := is.New(t)
	backend := videobackend.Mock()

	first, err := backend.ReadImage("/in/frame_01.png")
	is.NoErr(err)
	second, err := backend.ReadImage("/in/frame_02.png")
	is.NoErr(err)

	stride := 160 * 3
	rowsDiffer := 0
	for y := 46; y < 67; y++ {
		if string(first.Pix[y*stride:(y+1)*stride]) != string(second.Pix[y*stride:(y+1)*stride]) {
			rowsDiffer++
		}
	}
	is.True(rowsDiffer > 0) // only the label band can differ

	// outside the band both frames share the canvas
	is.Equal(first.Pix[:10*stride], second.Pix[:10*stride])
}
