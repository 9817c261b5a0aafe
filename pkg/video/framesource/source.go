package framesource

import (
	"context"
	"errors"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/tauraamui/vidupscale/pkg/ffmpeg"
	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/xerror"
)

// DefaultFPS is used when the rate is neither given nor probed.
const DefaultFPS = 24.0

var (
	ErrEmptyInput    = xerror.NewWithKind("empty_input", "the input folder is empty")
	ErrInputNotFound = xerror.NewWithKind("missing_input", "input does not exist")
)

type Kind int

const (
	KindVideo Kind = iota
	KindImage
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindImage:
		return "image"
	default:
		return "directory"
	}
}

// Prober is the subset of the ffmpeg tool needed to discover frames.
type Prober interface {
	Probe(ctx context.Context, input string) (ffmpeg.StreamInfo, error)
	ExtractFrames(ctx context.Context, input, dir string) error
}

type Options struct {
	Input string
	// ExtractDir receives the extracted frames of a video input. An empty
	// value leaves videos unextracted, as stream mode needs.
	ExtractDir string
	FPS        float64
	FS         afero.Fs
}

type Source struct {
	Kind      Kind
	Paths     []string
	FPS       float64
	Probed    ffmpeg.StreamInfo
	VideoName string
}

func (s Source) IsVideo() bool {
	return s.Kind == KindVideo
}

var videoExts = map[string]struct{}{
	".mp4": {}, ".mkv": {}, ".mov": {}, ".avi": {}, ".webm": {}, ".flv": {},
	".m4v": {}, ".mpg": {}, ".mpeg": {}, ".wmv": {}, ".ts": {},
}

// Discover classifies the input and lists its frames in order.
func Discover(ctx context.Context, opts Options, prober Prober) (Source, error) {
	fsys := opts.FS
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	input := strings.TrimRight(opts.Input, `/\`)
	if len(input) == 0 {
		input = opts.Input
	}

	stat, err := fsys.Stat(input)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Source{}, xerror.Errorf("%w: %s", ErrInputNotFound, input)
		}
		return Source{}, xerror.Errorf("unable to stat input %s: %w", input, err)
	}

	base := filepath.Base(input)
	src := Source{VideoName: strings.TrimSuffix(base, filepath.Ext(base)), FPS: opts.FPS}

	switch {
	case stat.IsDir():
		src.Kind = KindDirectory
		src.Paths, err = listDirectory(fsys, input)
		if err != nil {
			return Source{}, err
		}
	case IsVideo(input):
		src.Kind = KindVideo
		if err := discoverVideo(ctx, fsys, input, opts, prober, &src); err != nil {
			return Source{}, err
		}
	default:
		src.Kind = KindImage
		src.Paths = []string{input}
	}

	if src.FPS <= 0 {
		src.FPS = DefaultFPS
	}

	log.Debug("Discovered %s input %s with %d frames at %.3f fps", src.Kind, input, len(src.Paths), src.FPS)
	return src, nil
}

func discoverVideo(ctx context.Context, fsys afero.Fs, input string, opts Options, prober Prober, src *Source) error {
	if prober == nil {
		return xerror.New("video input requires ffmpeg")
	}

	info, err := prober.Probe(ctx, input)
	if err != nil {
		return err
	}
	src.Probed = info
	if src.FPS <= 0 {
		src.FPS = info.FPS
	}

	if len(opts.ExtractDir) == 0 {
		return nil
	}

	if err := fsys.MkdirAll(opts.ExtractDir, os.ModeDir|os.ModePerm); err != nil {
		return xerror.Errorf("unable to create frame scratch directory: %w", err)
	}
	if err := prober.ExtractFrames(ctx, input, opts.ExtractDir); err != nil {
		return err
	}

	src.Paths, err = listDirectory(fsys, opts.ExtractDir)
	if errors.Is(err, ErrEmptyInput) {
		return xerror.Errorf("no frames were extracted from %s: %w", input, err)
	}
	return err
}

func listDirectory(fsys afero.Fs, dir string) ([]string, error) {
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, xerror.Errorf("unable to read input folder %s: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}

	if len(paths) == 0 {
		return nil, xerror.Errorf("%w: %s", ErrEmptyInput, dir)
	}

	sort.Strings(paths)
	return paths, nil
}

// IsVideo classifies a path as a video container by its extension.
func IsVideo(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if t := mime.TypeByExtension(ext); len(t) > 0 {
		if strings.HasPrefix(t, "video/") {
			return true
		}
		if strings.HasPrefix(t, "image/") {
			return false
		}
	}
	_, ok := videoExts[ext]
	return ok
}
