package videobackend

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
)

var fs afero.Fs = afero.NewOsFs()

// Backend decodes and encodes single frame image files. The output format
// follows the extension of the path being written.
type Backend interface {
	ReadImage(path string) (videoframe.Image, error)
	WriteImage(path string, img videoframe.Image) error
}

func Default() Backend {
	return Imaging(fs)
}

func Imaging(fsys afero.Fs) Backend {
	return &imagingBackend{fs: fsys}
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock() *MockBackend {
	return &MockBackend{written: map[string]videoframe.Image{}}
}

func Resolve(t string, fsys afero.Fs) Backend {
	switch t {
	case "opencv":
		return OpenCV()
	case "mock":
		return Mock()
	default:
		return Imaging(fsys)
	}
}

func ensureDirectoryPathExists(fsys afero.Fs, path string) error {
	err := fsys.MkdirAll(filepath.Dir(path), os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}
