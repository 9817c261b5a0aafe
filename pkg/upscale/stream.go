package upscale

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/tauraamui/vidupscale/pkg/engine"
	"github.com/tauraamui/vidupscale/pkg/ffmpeg"
	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/vidupscale/pkg/subprocess"
	"github.com/tauraamui/vidupscale/pkg/upscale/process"
	"github.com/tauraamui/vidupscale/pkg/upscale/stream"
	"github.com/tauraamui/vidupscale/pkg/video/framesource"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

type frameIterator func() (videoframe.Frame, error)

func (r *Runner) runStream(ctx context.Context, upsampler *engine.Upsampler, summary *Summary) error {
	input := r.cfg.TrimmedInput()
	src, err := framesource.Discover(ctx, framesource.Options{Input: input, FPS: r.cfg.FPS, FS: r.fs}, r.tool)
	if err != nil {
		return err
	}

	inSize, total, err := r.streamGeometry(src)
	if err != nil {
		return err
	}
	outSize := inSize.Scaled(r.cfg.Outscale)
	warnAbove4K(outSize)

	output := filepath.Join(r.cfg.Output, fmt.Sprintf("%s_%s.mp4", r.cfg.VideoName(), r.cfg.Suffix))
	adapter, err := r.startPipes(ctx, src, inSize, outSize, output)
	if err != nil {
		return err
	}

	next := r.diskFrames(src.Paths)
	if adapter.Decoder != nil {
		next = adapter.Decoder.Next
	}

	progress := process.NewProgress(total, r.progressOut)
	stage := process.NewEnhanceStage(upsampler, progress)
	if err := r.streamFrames(ctx, next, stage, adapter.Encoder, summary); err != nil {
		adapter.Abort()
		progress.Finish()
		return err
	}
	progress.Finish()

	summary.Dropped = stage.Dropped()
	summary.AvgFPS = progress.FPS()
	if err := adapter.Close(); err != nil {
		return err
	}

	summary.Output = output
	log.Info("Saved %s, %d frames of %s", output, adapter.Encoder.Frames(), outSize)
	return nil
}

func (r *Runner) streamGeometry(src framesource.Source) (videoframe.Dimensions, int, error) {
	if src.IsVideo() {
		total := src.Probed.Frames
		if total <= 0 {
			total = -1
		}
		return src.Probed.Size, total, nil
	}

	first, err := r.backend.ReadImage(src.Paths[0])
	if err != nil {
		return videoframe.Dimensions{}, 0, xerror.Errorf("unable to read %s: %w", src.Paths[0], err)
	}
	return first.Dimensions(), len(src.Paths), nil
}

func (r *Runner) startPipes(
	ctx context.Context, src framesource.Source, inSize, outSize videoframe.Dimensions, output string,
) (*stream.Adapter, error) {
	var decoder subprocess.Process
	opts := ffmpeg.EncoderOptions{Size: outSize, FPS: src.FPS, Output: output}
	if src.IsVideo() {
		var err error
		decoder, err = r.tool.StartDecoder(ctx, r.cfg.TrimmedInput())
		if err != nil {
			return nil, xerror.Errorf("unable to start decoder: %w", err)
		}
		if src.Probed.HasAudio {
			opts.AudioFrom = r.cfg.TrimmedInput()
		}
	}

	encoder, err := r.tool.StartEncoder(ctx, opts)
	if err != nil {
		if decoder != nil {
			decoder.Kill() //nolint
			decoder.Wait() //nolint
		}
		return nil, xerror.Errorf("unable to start encoder: %w", err)
	}

	return stream.NewAdapter(decoder, encoder, inSize, outSize), nil
}

func (r *Runner) diskFrames(paths []string) frameIterator {
	idx := 0
	return func() (videoframe.Frame, error) {
		if idx >= len(paths) {
			return videoframe.Frame{}, io.EOF
		}
		path := paths[idx]
		img, err := r.backend.ReadImage(path)
		if err != nil {
			return videoframe.Frame{}, xerror.Errorf("unable to read %s: %w", path, err)
		}
		f := videoframe.Frame{Index: idx, Path: path, Image: img}
		idx++
		return f, nil
	}
}

// streamFrames enhances and encodes one frame at a time. A frame the engine
// has no capacity for is replaced by a resized copy of the source so the
// encoded frame count matches the decoded one.
func (r *Runner) streamFrames(
	ctx context.Context, next frameIterator, stage *process.EnhanceStage, encoder *stream.Encoder, summary *Summary,
) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		summary.Frames++

		img, enhanced, err := stage.Process(ctx, f)
		if err != nil {
			return err
		}
		if enhanced {
			summary.Enhanced++
		} else {
			log.Warn("Encoding a resized copy of frame %d (%s) in place of the enhanced frame", f.Index, f.Source())
			img = engine.ResizeLanczos(f.Image.RGB(), encoder.Size())
			summary.Substituted++
		}

		if err := encoder.Write(img); err != nil {
			return err
		}
	}
}
