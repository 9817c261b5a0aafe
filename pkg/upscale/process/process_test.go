package process_test

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/vidupscale/pkg/upscale/process"
)

func TestProcessStopCancelsEveryGoroutine(t *testing.T) {
	is := is.New(t)
	debugLines := []string{}
	reset := overloadDebugLog(func(format string, a ...interface{}) { debugLines = append(debugLines, format) })
	defer reset()

	proc := process.New(process.Settings{
		WaitForShutdownMsg: "Stopping test process...",
		Process: func(ctx context.Context) []chan interface{} {
			signals := []chan interface{}{}
			for i := 0; i < 3; i++ {
				stopped := make(chan interface{})
				signals = append(signals, stopped)
				go func() {
					<-ctx.Done()
					close(stopped)
				}()
			}
			return signals
		},
	})
	proc.Start()
	proc.Stop()

	done := make(chan struct{})
	go func() {
		proc.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("process did not stop")
	}
	is.Equal(debugLines, []string{"Stopping test process..."})
}

func TestProcessFollowsParentContext(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	proc := process.New(process.Settings{
		Parent: parent,
		Process: func(ctx context.Context) []chan interface{} {
			stopped := make(chan interface{})
			go func() {
				<-ctx.Done()
				close(stopped)
			}()
			return []chan interface{}{stopped}
		},
	})
	proc.Start()
	cancel()

	done := make(chan struct{})
	go func() {
		proc.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("process ignored parent cancellation")
	}
}
