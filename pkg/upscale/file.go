package upscale

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tauraamui/vidupscale/pkg/engine"
	"github.com/tauraamui/vidupscale/pkg/ffmpeg"
	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/vidupscale/pkg/upscale/process"
	"github.com/tauraamui/vidupscale/pkg/video/framesource"
	"github.com/tauraamui/xerror"
)

const processedFramesDir = "frames_tmpout"

func (r *Runner) runFile(ctx context.Context, upsampler *engine.Upsampler, summary *Summary) error {
	input := r.cfg.TrimmedInput()
	videoName := r.cfg.VideoName()

	var extractDir string
	if framesource.IsVideo(input) {
		extractDir = filepath.Join(r.scratchDir(), "tmp_frames", fmt.Sprintf("%s-%s", videoName, r.runID))
		defer r.removeScratch(extractDir)
	}

	src, err := framesource.Discover(ctx, framesource.Options{
		Input:      input,
		ExtractDir: extractDir,
		FPS:        r.cfg.FPS,
		FS:         r.fs,
	}, r.tool)
	if err != nil {
		return err
	}

	outDir := r.cfg.Output
	if src.IsVideo() {
		outDir = filepath.Join(r.cfg.Output, videoName, processedFramesDir)
		defer r.removeScratch(outDir)
		warnAbove4K(src.Probed.Size.Scaled(r.cfg.Outscale))
	}
	if err := r.fs.MkdirAll(outDir, os.ModeDir|os.ModePerm); err != nil {
		return xerror.Errorf("unable to create frame output directory %s: %w", outDir, err)
	}

	progress := process.NewProgress(len(src.Paths), r.progressOut)
	stage := process.NewEnhanceStage(upsampler, progress)
	queue := process.NewResultQueue()

	pool := process.NewConsumerPool(queue, r.backend, r.cfg.Consumers)
	pool.Start()
	reader := process.NewPrefetchReader(ctx, src.Paths, r.backend, r.cfg.Prefetch)
	reader.Start()

	ext, loopErr := r.enhanceFrames(ctx, reader, stage, queue, outDir, summary)
	reader.Stop()
	if loopErr != nil {
		if dropped := queue.Discard(); dropped > 0 {
			log.Debug("Discarded %d pending results", dropped)
		}
	}
	pool.Shutdown()
	progress.Finish()

	summary.Dropped = stage.Dropped()
	summary.AvgFPS = progress.FPS()
	failures := pool.Failures()
	summary.WriteFailures = len(failures)

	if loopErr != nil {
		return loopErr
	}
	if len(failures) > 0 {
		return xerror.Errorf("%w: %d of %d frames failed, first %s: %v",
			ErrFrameWrites, len(failures), summary.Enhanced, failures[0].SavePath, failures[0].Err)
	}

	if !src.IsVideo() {
		log.Info("Wrote %d frames to %s", pool.Written(), outDir)
		return nil
	}
	return r.remux(ctx, src, outDir, ext, summary)
}

// enhanceFrames drives the enhancement stage until the reader is drained and
// returns the extension of the frames it queued.
func (r *Runner) enhanceFrames(
	ctx context.Context,
	reader *process.PrefetchReader,
	stage *process.EnhanceStage,
	queue *process.ResultQueue,
	outDir string,
	summary *Summary,
) (string, error) {
	var ext string
	for {
		if err := ctx.Err(); err != nil {
			return ext, err
		}

		f, ok, err := reader.Next()
		if err != nil {
			return ext, xerror.Errorf("unable to read frame %d: %w", summary.Frames, err)
		}
		if !ok {
			return ext, ctx.Err()
		}
		summary.Frames++

		img, enhanced, err := stage.Process(ctx, f)
		if err != nil {
			return ext, err
		}
		if !enhanced {
			continue
		}

		res := process.NewEnhancedResult(f, img, outDir, r.cfg.Ext)
		ext = res.Ext
		queue.Put(process.Message{Result: res})
		summary.Enhanced++
	}
}

func (r *Runner) remux(ctx context.Context, src framesource.Source, framesDir, ext string, summary *Summary) error {
	if summary.Enhanced == 0 {
		return xerror.Errorf("%w: no frames were enhanced", ErrRemux)
	}

	output := filepath.Join(r.cfg.Output, fmt.Sprintf("%s_%s.mp4", r.cfg.VideoName(), r.cfg.Suffix))
	opts := ffmpeg.RemuxOptions{
		FPS:        src.FPS,
		FramesGlob: filepath.Join(framesDir, "*_out."+ext),
		Output:     output,
	}
	if src.Probed.HasAudio {
		opts.AudioFrom = r.cfg.TrimmedInput()
	}

	if err := r.tool.Remux(ctx, opts); err != nil {
		return xerror.Errorf("%w: %v", ErrRemux, err)
	}

	summary.Output = output
	log.Info("Saved %s", output)
	return nil
}
