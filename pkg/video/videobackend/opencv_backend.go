package videobackend

import (
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

// openCVBackend talks to the OS filesystem directly, OpenCV cannot be handed
// an afero filesystem.
type openCVBackend struct{}

var readMat = func(path string) gocv.Mat {
	return gocv.IMRead(path, gocv.IMReadUnchanged)
}

var writeMat = func(path string, mat gocv.Mat) bool {
	return gocv.IMWrite(path, mat)
}

func (b *openCVBackend) ReadImage(path string) (videoframe.Image, error) {
	mat := readMat(path)
	defer mat.Close()
	if mat.Empty() {
		return videoframe.Image{}, xerror.Errorf("unable to decode frame %s", path)
	}

	var code gocv.ColorConversionCode
	channels := 3
	switch mat.Channels() {
	case 1:
		code = gocv.ColorGrayToBGR
	case 4:
		code = gocv.ColorBGRAToRGBA
		channels = 4
	default:
		code = gocv.ColorBGRToRGB
	}

	converted := gocv.NewMat()
	defer converted.Close()
	gocv.CvtColor(mat, &converted, code)

	return videoframe.Image{
		W:        converted.Cols(),
		H:        converted.Rows(),
		Channels: channels,
		Pix:      converted.ToBytes(),
	}, nil
}

func (b *openCVBackend) WriteImage(path string, img videoframe.Image) error {
	if err := ensureDirectoryPathExists(fs, path); err != nil {
		return xerror.Errorf("unable to create output directory for %s: %w", path, err)
	}

	matType, code := gocv.MatTypeCV8UC3, gocv.ColorRGBToBGR
	if img.HasAlpha() {
		matType, code = gocv.MatTypeCV8UC4, gocv.ColorRGBAToBGRA
	}

	mat, err := gocv.NewMatFromBytes(img.H, img.W, matType, img.Pix)
	if err != nil {
		return xerror.Errorf("unable to load frame into OpenCV mat: %w", err)
	}
	defer mat.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, code)

	if !writeMat(path, bgr) {
		return xerror.Errorf("unable to write frame %s", path)
	}
	return nil
}
