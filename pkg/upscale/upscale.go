package upscale

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/tauraamui/vidupscale/pkg/configdef"
	"github.com/tauraamui/vidupscale/pkg/engine"
	"github.com/tauraamui/vidupscale/pkg/ffmpeg"
	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/vidupscale/pkg/subprocess"
	"github.com/tauraamui/vidupscale/pkg/video/framesource"
	"github.com/tauraamui/vidupscale/pkg/video/videobackend"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

const fourKHeight = 2160

var (
	ErrNoInput     = xerror.NewWithKind("no_input", "no input given")
	ErrRemux       = xerror.NewWithKind("remux", "unable to merge enhanced frames into a video")
	ErrFrameWrites = xerror.NewWithKind("frame_writes", "enhanced frames could not be written")
)

// Runner orchestrates one upscale run from frame discovery to the final
// video or image files.
type Runner struct {
	cfg         configdef.Values
	fs          afero.Fs
	runner      subprocess.Runner
	tool        *ffmpeg.Tool
	engine      engine.Engine
	ownsEngine  bool
	backend     videobackend.Backend
	progressOut io.Writer
	journal     Recorder
	model       engine.Model
	runID       string
}

func New(cfg configdef.Values, opts ...Option) (*Runner, error) {
	if len(cfg.TrimmedInput()) == 0 {
		return nil, ErrNoInput
	}

	model, err := engine.ResolveModel(cfg.ModelName)
	if err != nil {
		return nil, err
	}

	r := &Runner{cfg: cfg, model: model, runID: uuid.NewString()}
	for _, opt := range opts {
		opt(r)
	}

	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if r.runner == nil {
		r.runner = subprocess.Exec()
	}
	if r.backend == nil {
		r.backend = videobackend.Resolve(cfg.ImageBackend, r.fs)
	}
	if r.progressOut == nil {
		r.progressOut = os.Stderr
	}
	r.tool = ffmpeg.New(cfg.FFmpegBin, r.runner)

	return r, nil
}

func (r *Runner) RunID() string { return r.runID }

func (r *Runner) Mode() string {
	if r.cfg.Stream {
		return ModeStream
	}
	return ModeFile
}

// Run executes the pipeline. Any returned error is fatal for the run,
// frames dropped for lack of accelerator capacity are only reported in
// the summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	started := time.Now()
	summary := Summary{
		RunID:     r.runID,
		Mode:      r.Mode(),
		Input:     r.cfg.TrimmedInput(),
		Output:    r.cfg.Output,
		ModelName: r.model.String(),
		Outscale:  r.cfg.Outscale,
	}

	err := r.run(ctx, &summary)
	summary.Duration = time.Since(started)

	if r.journal != nil {
		if recordErr := r.journal.Record(summary.toRun(err)); recordErr != nil {
			log.Warn("Unable to record run %s in journal: %v", r.runID, recordErr)
		}
	}

	return summary, err
}

func (r *Runner) run(ctx context.Context, summary *Summary) error {
	input := r.cfg.TrimmedInput()
	if r.cfg.Stream || framesource.IsVideo(input) {
		if err := r.tool.Available(); err != nil {
			return err
		}
	}

	e, err := r.setupEngine(ctx)
	if err != nil {
		return err
	}
	if r.ownsEngine {
		defer func() {
			if err := e.Close(); err != nil {
				log.Error("Unable to close enhancement engine: %v", err)
			}
		}()
	}

	upsampler := engine.NewUpsampler(e, r.model, engine.UpsamplerOptions{
		Outscale:           r.cfg.Outscale,
		AlphaThroughEngine: r.cfg.UsesEngineForAlpha(),
		FaceEnhance:        r.cfg.FaceEnhance,
	})

	if err := r.fs.MkdirAll(r.cfg.Output, os.ModeDir|os.ModePerm); err != nil {
		return xerror.Errorf("unable to create output directory %s: %w", r.cfg.Output, err)
	}

	log.Info("Upscaling %s x%g with %s (run %s)", input, r.cfg.Outscale, r.model, r.runID)
	if r.cfg.Stream {
		return r.runStream(ctx, upsampler, summary)
	}
	return r.runFile(ctx, upsampler, summary)
}

func (r *Runner) setupEngine(ctx context.Context) (engine.Engine, error) {
	if r.engine != nil {
		return r.engine, nil
	}

	if r.cfg.Engine == configdef.EngineBicubic {
		log.Warn("Using the bicubic engine, frames are resampled without super-resolution")
		r.ownsEngine = true
		return engine.NewBicubic(r.model), nil
	}

	weights, err := engine.ResolveWeights(r.fs, r.model, r.cfg.WeightsDirs)
	if err != nil {
		return nil, err
	}

	w, err := engine.StartWorker(ctx, r.runner, r.cfg.WorkerCommand, engine.Options{
		Model:       r.model,
		WeightsPath: weights,
		Tile:        r.cfg.Tile,
		TilePad:     r.cfg.TilePad,
		PrePad:      r.cfg.PrePad,
		Outscale:    r.cfg.Outscale,
		FP32:        r.cfg.FP32,
		FaceEnhance: r.cfg.FaceEnhance,
		GPUID:       r.cfg.GPUID,
	})
	if err != nil {
		return nil, err
	}
	r.ownsEngine = true
	return w, nil
}

func (r *Runner) scratchDir() string {
	if len(r.cfg.ScratchDir) > 0 {
		return r.cfg.ScratchDir
	}
	return os.TempDir()
}

func (r *Runner) removeScratch(path string) {
	if err := r.fs.RemoveAll(path); err != nil {
		log.Warn("Unable to remove scratch directory %s: %v", path, err)
		return
	}
	log.Debug("Removed scratch directory %s", path)
}

func warnAbove4K(out videoframe.Dimensions) {
	if out.H > fourKHeight {
		log.Warn(
			"You are generating video that is larger than 4K (%s), which will be very slow due to IO speed. We highly recommend to decrease the outscale (-s)",
			out,
		)
	}
}
