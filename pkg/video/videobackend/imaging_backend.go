package videobackend

import (
	"bufio"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

const jpegQuality = 95

type imagingBackend struct {
	fs afero.Fs
}

func (b *imagingBackend) ReadImage(path string) (videoframe.Image, error) {
	file, err := b.fs.Open(path)
	if err != nil {
		return videoframe.Image{}, xerror.Errorf("unable to open frame %s: %w", path, err)
	}
	defer file.Close()

	img, err := imaging.Decode(bufio.NewReader(file))
	if err != nil {
		return videoframe.Image{}, xerror.Errorf("unable to decode frame %s: %w", path, err)
	}

	return videoframe.FromImage(img), nil
}

func (b *imagingBackend) WriteImage(path string, img videoframe.Image) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return xerror.Errorf("unsupported output format %s: %w", filepath.Ext(path), err)
	}

	if err := ensureDirectoryPathExists(b.fs, path); err != nil {
		return xerror.Errorf("unable to create output directory for %s: %w", path, err)
	}

	file, err := b.fs.Create(path)
	if err != nil {
		return xerror.Errorf("unable to create frame file %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	if err := imaging.Encode(w, img.ToNRGBA(), format, imaging.JPEGQuality(jpegQuality)); err != nil {
		file.Close()
		return xerror.Errorf("unable to encode frame %s: %w", path, err)
	}

	if err := w.Flush(); err != nil {
		file.Close()
		return xerror.Errorf("unable to flush frame %s: %w", path, err)
	}

	return file.Close()
}
