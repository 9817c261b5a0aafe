package process_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/vidupscale/pkg/upscale/process"
	"github.com/tauraamui/vidupscale/pkg/video/videobackend"
	"github.com/tauraamui/vidupscale/pkg/video/videoframe"
)

func queueResults(q *process.ResultQueue, n int) {
	for i := 0; i < n; i++ {
		q.Put(process.Message{Result: process.EnhancedResult{
			Index:    i,
			Image:    videoframe.NewImage(2, 2, 3),
			SavePath: fmt.Sprintf("out/frame%02d_out.png", i+1),
		}})
	}
}

func TestConsumerPoolWritesEveryResultAndStops(t *testing.T) {
	is := is.New(t)
	reset := overloadDebugLog(func(string, ...interface{}) {})
	defer reset()

	q := process.NewResultQueue()
	backend := videobackend.Mock()
	pool := process.NewConsumerPool(q, backend, 3)
	pool.Start()
	queueResults(q, 7)

	done := make(chan struct{})
	go func() {
		pool.Shutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer pool did not stop")
	}

	is.Equal(pool.Written(), 7)
	is.Equal(len(backend.Written()), 7)
	is.Equal(q.Sentinels(), 3)
	is.Equal(q.Len(), 0)
}

func TestConsumerPoolDefaultsSize(t *testing.T) {
	is := is.New(t)
	pool := process.NewConsumerPool(process.NewResultQueue(), videobackend.Mock(), 0)
	is.Equal(pool.Size(), process.DefaultConsumers)
}

type failingWriter struct {
	mu      sync.Mutex
	failOn  string
	written []string
}

func (f *failingWriter) ReadImage(string) (videoframe.Image, error) {
	return videoframe.Image{}, nil
}

func (f *failingWriter) WriteImage(path string, _ videoframe.Image) error {
	if path == f.failOn {
		return errors.New("disk full")
	}
	f.mu.Lock()
	f.written = append(f.written, path)
	f.mu.Unlock()
	return nil
}

func TestConsumerPoolCountsWriteFailures(t *testing.T) {
	is := is.New(t)
	errs := 0
	var mu sync.Mutex
	resetErr := overloadErrorLog(func(string, ...interface{}) {
		mu.Lock()
		errs++
		mu.Unlock()
	})
	defer resetErr()
	resetDebug := overloadDebugLog(func(string, ...interface{}) {})
	defer resetDebug()

	q := process.NewResultQueue()
	writer := &failingWriter{failOn: "out/frame02_out.png"}
	pool := process.NewConsumerPool(q, writer, 2)
	pool.Start()
	queueResults(q, 4)
	pool.Shutdown()

	is.Equal(pool.Written(), 3)
	failures := pool.Failures()
	is.Equal(len(failures), 1)
	is.Equal(failures[0].Index, 1)
	is.Equal(errs, 1)
}
