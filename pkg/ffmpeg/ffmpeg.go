package ffmpeg

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tauraamui/vidupscale/pkg/subprocess"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// ExtractedFramePattern names the lossless frames written by ExtractFrames.
const ExtractedFramePattern = "frame%08d.png"

var ErrBinaryNotFound = xerror.NewWithKind("missing_binary", "ffmpeg binary not found")

// Tool drives the ffmpeg and ffprobe binaries.
type Tool struct {
	bin      string
	probeBin string
	runner   subprocess.Runner
}

func New(bin string, runner subprocess.Runner) *Tool {
	if runner == nil {
		runner = subprocess.Exec()
	}
	return &Tool{bin: bin, probeBin: probeBinFor(bin), runner: runner}
}

func (t *Tool) Bin() string      { return t.bin }
func (t *Tool) ProbeBin() string { return t.probeBin }

// probeBinFor derives the ffprobe binary living next to the given ffmpeg.
func probeBinFor(bin string) string {
	dir, base := filepath.Split(bin)
	if !strings.Contains(base, "ffmpeg") {
		return "ffprobe"
	}
	return dir + strings.Replace(base, "ffmpeg", "ffprobe", 1)
}

// Available fails with ErrBinaryNotFound unless both binaries resolve.
func (t *Tool) Available() error {
	for _, bin := range []string{t.bin, t.probeBin} {
		if _, err := t.runner.LookPath(bin); err != nil {
			return xerror.Errorf("%w: %s: %v", ErrBinaryNotFound, bin, err)
		}
	}
	return nil
}

func (t *Tool) ExtractFrames(ctx context.Context, input, dir string) error {
	if err := t.runner.Run(ctx, t.bin, extractArgs(input, dir)...); err != nil {
		return xerror.Errorf("unable to extract frames from %s: %w", input, err)
	}
	return nil
}

func extractArgs(input, dir string) []string {
	return []string{
		"-nostdin", "-i", input,
		"-qscale:v", "1", "-qmin", "1", "-qmax", "1",
		"-vsync", "0",
		filepath.Join(dir, ExtractedFramePattern),
	}
}

type RemuxOptions struct {
	FPS        float64
	FramesGlob string
	AudioFrom  string
	Output     string
}

// Remux encodes the processed frame files into an h264 mp4, copying the
// first audio track of AudioFrom when there is one.
func (t *Tool) Remux(ctx context.Context, opts RemuxOptions) error {
	if err := t.runner.Run(ctx, t.bin, remuxArgs(opts)...); err != nil {
		return xerror.Errorf("unable to remux %s: %w", opts.Output, err)
	}
	return nil
}

func remuxArgs(opts RemuxOptions) []string {
	fps := formatFPS(opts.FPS)
	args := []string{
		"-nostdin", "-y",
		"-r", fps,
		"-pattern_type", "glob", "-i", opts.FramesGlob,
	}
	if len(opts.AudioFrom) > 0 {
		args = append(args, "-i", opts.AudioFrom, "-map", "0:v:0", "-map", "1:a:0?", "-c:a", "copy")
	}
	return append(args,
		"-c:v", "libx264",
		"-r", fps,
		"-pix_fmt", "yuv420p",
		opts.Output,
	)
}

// StartDecoder launches ffmpeg decoding input into raw rgb24 on stdout.
func (t *Tool) StartDecoder(ctx context.Context, input string) (subprocess.Process, error) {
	return t.runner.Start(ctx, t.bin, decoderArgs(input)...)
}

func decoderArgs(input string) []string {
	return []string{
		"-nostdin",
		"-i", input,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-loglevel", "error",
		"pipe:",
	}
}

type EncoderOptions struct {
	Size      videoframe.Dimensions
	FPS       float64
	AudioFrom string
	Output    string
}

// StartEncoder launches ffmpeg reading raw rgb24 frames of opts.Size from
// stdin and writing an h264 mp4.
func (t *Tool) StartEncoder(ctx context.Context, opts EncoderOptions) (subprocess.Process, error) {
	return t.runner.Start(ctx, t.bin, encoderArgs(opts)...)
}

func encoderArgs(opts EncoderOptions) []string {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", opts.Size.String(),
		"-framerate", formatFPS(opts.FPS),
		"-i", "pipe:",
	}
	if len(opts.AudioFrom) > 0 {
		args = append(args, "-i", opts.AudioFrom, "-map", "0:v:0", "-map", "1:a:0?", "-c:a", "copy")
	}
	return append(args,
		"-pix_fmt", "yuv420p",
		"-vcodec", "libx264",
		"-loglevel", "error",
		opts.Output,
	)
}

func formatFPS(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}
