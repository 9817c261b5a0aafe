package upscale

import (
	"io"

	"github.com/spf13/afero"
	"github.com/tauraamui/vidupscale/pkg/engine"
	"github.com/tauraamui/vidupscale/pkg/subprocess"
	"github.com/tauraamui/vidupscale/pkg/video/videobackend"
)

type Option func(*Runner)

func WithFS(fsys afero.Fs) Option {
	return func(r *Runner) { r.fs = fsys }
}

// WithRunner replaces the process runner used for ffmpeg and the
// enhancement worker.
func WithRunner(runner subprocess.Runner) Option {
	return func(r *Runner) { r.runner = runner }
}

// WithEngine skips engine construction, the caller keeps ownership of e.
func WithEngine(e engine.Engine) Option {
	return func(r *Runner) { r.engine = e }
}

func WithBackend(backend videobackend.Backend) Option {
	return func(r *Runner) { r.backend = backend }
}

func WithProgressWriter(w io.Writer) Option {
	return func(r *Runner) { r.progressOut = w }
}

func WithJournal(j Recorder) Option {
	return func(r *Runner) { r.journal = j }
}
