package mocks

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sync"

	"github.com/tauraamui/vidupscale/pkg/subprocess"
	"github.com/tauraamui/xerror"
)

type FFmpegOptions struct {
	MissingBinaries []string
	ProbeJSON       string
	ProbeErr        error
	DecodedStream   []byte
	OnExtract       func(input, dir string) error
	OnRemux         func(args []string) error
	EncoderWaitErr  error
	// EncoderWriteLimit makes the encoder stdin accept at most this many
	// bytes before short writing, zero means unlimited.
	EncoderWriteLimit int
}

// FFmpegRunner stands in for the ffmpeg and ffprobe binaries.
type FFmpegRunner struct {
	opts    FFmpegOptions
	mu      sync.Mutex
	calls   [][]string
	decoder *Process
	encoder *Process
}

func NewFFmpegRunner(opts FFmpegOptions) *FFmpegRunner {
	return &FFmpegRunner{opts: opts}
}

func (r *FFmpegRunner) record(name string, args []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, append([]string{name}, args...))
}

func (r *FFmpegRunner) LookPath(name string) (string, error) {
	for _, missing := range r.opts.MissingBinaries {
		if missing == name {
			return "", xerror.Errorf("executable file not found in $PATH")
		}
	}
	return "/usr/bin/" + name, nil
}

func (r *FFmpegRunner) Run(ctx context.Context, name string, args ...string) error {
	r.record(name, args)
	switch {
	case contains(args, "-vsync"):
		if r.opts.OnExtract == nil {
			return nil
		}
		return r.opts.OnExtract(valueAfter(args, "-i"), filepath.Dir(args[len(args)-1]))
	case contains(args, "-pattern_type"):
		if r.opts.OnRemux == nil {
			return nil
		}
		return r.opts.OnRemux(args)
	}
	return nil
}

func (r *FFmpegRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	r.record(name, args)
	if r.opts.ProbeErr != nil {
		return nil, r.opts.ProbeErr
	}
	return []byte(r.opts.ProbeJSON), nil
}

func (r *FFmpegRunner) Start(ctx context.Context, name string, args ...string) (subprocess.Process, error) {
	r.record(name, args)
	r.mu.Lock()
	defer r.mu.Unlock()

	if valueAfter(args, "-i") == "pipe:" {
		r.encoder = NewProcess(nil)
		r.encoder.waitErr = r.opts.EncoderWaitErr
		r.encoder.stdin.limit = r.opts.EncoderWriteLimit
		return r.encoder, nil
	}
	r.decoder = NewProcess(bytes.NewReader(r.opts.DecodedStream))
	return r.decoder, nil
}

func (r *FFmpegRunner) Calls() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([][]string{}, r.calls...)
}

func (r *FFmpegRunner) Encoder() *Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.encoder
}

func (r *FFmpegRunner) Decoder() *Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.decoder
}

// Process is an in memory subprocess.Process which records everything
// written to its stdin.
type Process struct {
	mu      sync.Mutex
	stdin   *recordingWriter
	stdout  io.Reader
	waited  bool
	killed  bool
	waitErr error
}

func NewProcess(stdout io.Reader) *Process {
	if stdout == nil {
		stdout = bytes.NewReader(nil)
	}
	return &Process{stdin: &recordingWriter{}, stdout: stdout}
}

func (p *Process) Stdin() io.WriteCloser { return p.stdin }
func (p *Process) Stdout() io.Reader     { return p.stdout }

func (p *Process) Wait() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waited = true
	return p.waitErr
}

func (p *Process) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.killed = true
	return nil
}

func (p *Process) Waited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waited
}

func (p *Process) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

// Writes returns the length of every write made to stdin.
func (p *Process) Writes() []int {
	return p.stdin.sizes()
}

func (p *Process) StdinClosed() bool {
	return p.stdin.isClosed()
}

type recordingWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	writes []int
	closed bool
	limit  int
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, io.ErrClosedPipe
	}
	n := len(b)
	if w.limit > 0 && w.buf.Len()+n > w.limit {
		n = w.limit - w.buf.Len()
	}
	w.buf.Write(b[:n])
	w.writes = append(w.writes, n)
	if n < len(b) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *recordingWriter) sizes() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int{}, w.writes...)
}

func (w *recordingWriter) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func contains(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func valueAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
