package process_test

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/vidupscale/pkg/upscale/process"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
)

func TestResolveExtension(t *testing.T) {
	is := is.New(t)
	is.Equal(process.ResolveExtension("auto", "jpg", false), "jpg")
	is.Equal(process.ResolveExtension("auto", ".JPG", false), "jpg")
	is.Equal(process.ResolveExtension("auto", "", false), "png")
	is.Equal(process.ResolveExtension("jpg", "png", false), "jpg")
	is.Equal(process.ResolveExtension("jpg", "png", true), "png")
	is.Equal(process.ResolveExtension("auto", "jpg", true), "png")
}

func TestNewEnhancedResultBuildsSavePath(t *testing.T) {
	is := is.New(t)
	f := videoframe.Frame{Index: 2, Path: filepath.Join("in", "x.jpg"), Image: videoframe.NewImage(2, 2, 3)}
	res := process.NewEnhancedResult(f, videoframe.NewImage(8, 8, 3), "results", "auto")
	is.Equal(res.SavePath, filepath.Join("results", "x_out.jpg"))
	is.Equal(res.Ext, "jpg")
	is.Equal(res.Index, 2)

	withAlpha := videoframe.Frame{Index: 3, Path: filepath.Join("in", "y.jpg"), Image: videoframe.NewImage(2, 2, 4)}
	res = process.NewEnhancedResult(withAlpha, videoframe.NewImage(8, 8, 4), "results", "jpg")
	is.Equal(res.SavePath, filepath.Join("results", "y_out.png"))
}

func TestNewEnhancedResultNamesStreamFramesByIndex(t *testing.T) {
	is := is.New(t)
	f := videoframe.Frame{Index: 0, Image: videoframe.NewImage(2, 2, 3)}
	res := process.NewEnhancedResult(f, f.Image, "out", "png")
	is.Equal(res.SavePath, filepath.Join("out", "frame00000001_out.png"))
}
