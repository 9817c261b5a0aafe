package subprocess

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/vidupscale/pkg/log"
)

func overloadDebugLog(overload func(string, ...interface{})) func() {
	logDebugRef := log.Debug
	log.Debug = overload
	return func() { log.Debug = logDebugRef }
}

func TestStderrTailSplitsOnNewlinesAndCarriageReturns(t *testing.T) {
	is := is.New(t)
	var debugLogs []string
	reset := overloadDebugLog(func(format string, a ...interface{}) {
		debugLogs = append(debugLogs, fmt.Sprintf(format, a...))
	})
	defer reset()

	tail := newStderrTail("ffmpeg")
	_, err := tail.Write([]byte("first line\nframe=  1\rframe=  2\rpart"))
	is.NoErr(err)
	_, err = tail.Write([]byte("ial\n"))
	is.NoErr(err)

	is.Equal(debugLogs, []string{
		"[ffmpeg] first line",
		"[ffmpeg] frame=  1",
		"[ffmpeg] frame=  2",
		"[ffmpeg] partial",
	})
	is.Equal(tail.String(), "first line\nframe=  1\nframe=  2\npartial")
}

func TestStderrTailKeepsOnlyTheLastLines(t *testing.T) {
	is := is.New(t)
	reset := overloadDebugLog(func(string, ...interface{}) {})
	defer reset()

	tail := newStderrTail("ffmpeg")
	for i := 0; i < stderrTailLines+5; i++ {
		fmt.Fprintf(tail, "line %d\n", i)
	}
	lines := strings.Split(tail.String(), "\n")
	is.Equal(len(lines), stderrTailLines)
	is.Equal(lines[0], "line 5")
}

func TestExecRunnerPipesThroughRealProcess(t *testing.T) {
	is := is.New(t)
	runner := Exec()
	if _, err := runner.LookPath("cat"); err != nil {
		t.Skip("cat binary not available")
	}
	reset := overloadDebugLog(func(string, ...interface{}) {})
	defer reset()

	proc, err := runner.Start(context.Background(), "cat")
	is.NoErr(err)

	go func() {
		proc.Stdin().Write([]byte("raw frame bytes"))
		proc.Stdin().Close()
	}()

	out, err := io.ReadAll(proc.Stdout())
	is.NoErr(err)
	is.NoErr(proc.Wait())
	is.Equal(string(out), "raw frame bytes")
}
