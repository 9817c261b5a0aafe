package engine

import (
	"bufio"
	"context"
	"encoding/binary"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/vidupscale/pkg/subprocess"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

const (
	opEnhance      uint32 = 1
	opEnhanceFaces uint32 = 2
	opSync         uint32 = 3

	statusOK               uint32 = 0
	statusCapacityExceeded uint32 = 1
	statusFailure          uint32 = 2

	maxMessageLen = 1 << 16
	// no supported model upsamples further than this in one pass
	maxResponseScale = 8
)

var workerStopTimeout = 5 * time.Second

type requestHeader struct {
	Op, Width, Height, Channels uint32
}

type responseHeader struct {
	Status, Width, Height, Channels, MessageLen uint32
}

// Worker drives a long lived enhancement process over stdin and stdout.
// Requests are strictly sequential.
type Worker struct {
	mu     sync.Mutex
	proc   subprocess.Process
	stdin  io.WriteCloser
	stdout *bufio.Reader
	closed bool
}

// WorkerArgs renders the options as command line flags for the worker.
func WorkerArgs(opts Options) []string {
	args := []string{
		"--model", opts.Model.String(),
		"--model-path", opts.WeightsPath,
		"--netscale", strconv.Itoa(opts.Model.NetScale()),
		"--tile", strconv.Itoa(opts.Tile),
		"--tile-pad", strconv.Itoa(opts.TilePad),
		"--pre-pad", strconv.Itoa(opts.PrePad),
		"--outscale", strconv.FormatFloat(opts.Outscale, 'f', -1, 64),
		"--gpu-id", strconv.Itoa(opts.GPUID),
	}
	if opts.FP32 {
		args = append(args, "--fp32")
	}
	if opts.FaceEnhance {
		args = append(args, "--face-enhance")
	}
	return args
}

func StartWorker(ctx context.Context, runner subprocess.Runner, command []string, opts Options) (*Worker, error) {
	if len(command) == 0 {
		return nil, xerror.New("no enhancement worker command configured")
	}

	args := append(append([]string{}, command[1:]...), WorkerArgs(opts)...)
	proc, err := runner.Start(ctx, command[0], args...)
	if err != nil {
		return nil, xerror.Errorf("unable to start enhancement worker: %w", err)
	}

	log.Info("Started enhancement worker %s for model %s", command[0], opts.Model)
	return NewWorker(proc), nil
}

func NewWorker(proc subprocess.Process) *Worker {
	return &Worker{proc: proc, stdin: proc.Stdin(), stdout: bufio.NewReader(proc.Stdout())}
}

func (w *Worker) Enhance(ctx context.Context, img videoframe.Image) (videoframe.Image, error) {
	return w.roundTrip(ctx, opEnhance, img)
}

func (w *Worker) EnhanceFaces(ctx context.Context, img videoframe.Image) (videoframe.Image, error) {
	return w.roundTrip(ctx, opEnhanceFaces, img)
}

func (w *Worker) Synchronize() error {
	_, err := w.roundTrip(context.Background(), opSync, videoframe.Image{})
	return err
}

func (w *Worker) roundTrip(ctx context.Context, op uint32, img videoframe.Image) (videoframe.Image, error) {
	if err := ctx.Err(); err != nil {
		return videoframe.Image{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return videoframe.Image{}, xerror.Errorf("%w: worker is closed", ErrWorkerProtocol)
	}

	req := requestHeader{Op: op, Width: uint32(img.W), Height: uint32(img.H), Channels: uint32(img.Channels)}
	if err := binary.Write(w.stdin, binary.LittleEndian, req); err != nil {
		return videoframe.Image{}, xerror.Errorf("%w: unable to send request: %v", ErrWorkerProtocol, err)
	}
	if len(img.Pix) > 0 {
		if _, err := w.stdin.Write(img.Pix); err != nil {
			return videoframe.Image{}, xerror.Errorf("%w: unable to send pixels: %v", ErrWorkerProtocol, err)
		}
	}

	var resp responseHeader
	if err := binary.Read(w.stdout, binary.LittleEndian, &resp); err != nil {
		return videoframe.Image{}, xerror.Errorf("%w: unable to read response: %v", ErrWorkerProtocol, err)
	}
	if resp.MessageLen > maxMessageLen {
		return videoframe.Image{}, xerror.Errorf("%w: message of %d bytes", ErrWorkerProtocol, resp.MessageLen)
	}

	msg := make([]byte, resp.MessageLen)
	if _, err := io.ReadFull(w.stdout, msg); err != nil {
		return videoframe.Image{}, xerror.Errorf("%w: unable to read message: %v", ErrWorkerProtocol, err)
	}

	switch resp.Status {
	case statusOK:
	case statusCapacityExceeded:
		return videoframe.Image{}, xerror.Errorf("%w: %s", ErrCapacityExceeded, msg)
	case statusFailure:
		return videoframe.Image{}, xerror.Errorf("%w: %s", ErrEngineFailure, msg)
	default:
		return videoframe.Image{}, xerror.Errorf("%w: unknown status %d", ErrWorkerProtocol, resp.Status)
	}

	if err := checkResponseGeometry(req, resp); err != nil {
		return videoframe.Image{}, err
	}

	out := videoframe.NewImage(int(resp.Width), int(resp.Height), int(resp.Channels))
	if _, err := io.ReadFull(w.stdout, out.Pix); err != nil {
		return videoframe.Image{}, xerror.Errorf("%w: unable to read pixels: %v", ErrWorkerProtocol, err)
	}
	return out, nil
}

func checkResponseGeometry(req requestHeader, resp responseHeader) error {
	if req.Op == opSync {
		if resp.Width != 0 || resp.Height != 0 || resp.Channels != 0 {
			return xerror.Errorf("%w: sync answered with a %dx%dx%d frame", ErrWorkerProtocol, resp.Width, resp.Height, resp.Channels)
		}
		return nil
	}
	if resp.Channels != 3 && resp.Channels != 4 {
		return xerror.Errorf("%w: response has %d channels", ErrWorkerProtocol, resp.Channels)
	}
	if resp.Width == 0 || resp.Height == 0 ||
		uint64(resp.Width) > uint64(req.Width)*maxResponseScale ||
		uint64(resp.Height) > uint64(req.Height)*maxResponseScale {
		return xerror.Errorf("%w: response of %dx%d for a %dx%d frame",
			ErrWorkerProtocol, resp.Width, resp.Height, req.Width, req.Height)
	}
	return nil
}

// Close ends the worker's input and waits for it to exit, killing it if it
// does not do so in time.
func (w *Worker) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	if err := w.stdin.Close(); err != nil {
		log.Debug("Unable to close enhancement worker input: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- w.proc.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(workerStopTimeout):
		log.Warn("Enhancement worker did not exit after %s, killing it", workerStopTimeout)
		if err := w.proc.Kill(); err != nil {
			return xerror.Errorf("unable to kill enhancement worker: %w", err)
		}
		return <-done
	}
}
