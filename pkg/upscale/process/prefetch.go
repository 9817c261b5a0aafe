package process

import (
	"context"

	"github.com/tauraamui/vidupscale/pkg/video/videobackend"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
)

// DefaultPrefetch is the default capacity of the prefetch queue.
const DefaultPrefetch = 4

type prefetched struct {
	frame videoframe.Frame
	err   error
}

// PrefetchReader decodes frames on a background goroutine, keeping at most
// capacity decoded frames queued ahead of the reader.
type PrefetchReader struct {
	ctx     context.Context
	paths   []string
	backend videobackend.Backend
	frames  chan prefetched
	proc    Process
}

func NewPrefetchReader(ctx context.Context, paths []string, backend videobackend.Backend, capacity int) *PrefetchReader {
	if capacity < 1 {
		capacity = DefaultPrefetch
	}
	if ctx == nil {
		ctx = context.Background()
	}
	r := &PrefetchReader{
		ctx:     ctx,
		paths:   paths,
		backend: backend,
		frames:  make(chan prefetched, capacity),
	}
	r.proc = New(Settings{
		WaitForShutdownMsg: "Stopping frame prefetch...",
		Parent:             ctx,
		Process:            r.run,
	})
	return r
}

func (r *PrefetchReader) Start() { r.proc.Start() }

func (r *PrefetchReader) run(ctx context.Context) []chan interface{} {
	stopped := make(chan interface{})
	go func() {
		defer close(stopped)
		defer close(r.frames)
		for i, path := range r.paths {
			if ctx.Err() != nil {
				return
			}
			img, err := r.backend.ReadImage(path)
			item := prefetched{frame: videoframe.Frame{Index: i, Path: path, Image: img}, err: err}
			select {
			case r.frames <- item:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()
	return []chan interface{}{stopped}
}

// Next blocks for the next frame in source order. ok is false once the
// sequence is exhausted. A producer stopped by the parent context reports
// the context's error rather than a clean end of sequence.
func (r *PrefetchReader) Next() (frame videoframe.Frame, ok bool, err error) {
	item, open := <-r.frames
	if !open {
		return videoframe.Frame{}, false, r.ctx.Err()
	}
	if item.err != nil {
		return videoframe.Frame{}, false, item.err
	}
	return item.frame, true, nil
}

// Stop cancels the producer and waits for it to exit.
func (r *PrefetchReader) Stop() {
	r.proc.Stop()
	r.proc.Wait()
}
