package subprocess

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/xerror"
)

const stderrTailLines = 20

// Runner launches external binaries. Tests swap it for an in memory fake.
type Runner interface {
	LookPath(name string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// Process is a running binary with piped stdin and stdout.
type Process interface {
	Stdin() io.WriteCloser
	Stdout() io.Reader
	Wait() error
	Kill() error
}

func Exec() Runner {
	return execRunner{}
}

type execRunner struct{}

func (execRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	tail := newStderrTail(name)
	cmd.Stderr = tail
	if err := cmd.Run(); err != nil {
		return xerror.Errorf("%s failed: %w: %s", name, err, tail.String())
	}
	return nil
}

func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	tail := newStderrTail(name)
	cmd.Stderr = tail
	out, err := cmd.Output()
	if err != nil {
		return nil, xerror.Errorf("%s failed: %w: %s", name, err, tail.String())
	}
	return out, nil
}

func (execRunner) Start(ctx context.Context, name string, args ...string) (Process, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, xerror.Errorf("unable to open stdin of %s: %w", name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, xerror.Errorf("unable to open stdout of %s: %w", name, err)
	}
	tail := newStderrTail(name)
	cmd.Stderr = tail

	log.Debug("Starting %s %s", name, strings.Join(args, " "))
	if err := cmd.Start(); err != nil {
		return nil, xerror.Errorf("unable to start %s: %w", name, err)
	}

	return &execProcess{cmd: cmd, stdin: stdin, stdout: stdout, tail: tail}, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
	tail   *stderrTail
}

func (p *execProcess) Stdin() io.WriteCloser { return p.stdin }
func (p *execProcess) Stdout() io.Reader     { return p.stdout }

func (p *execProcess) Wait() error {
	if err := p.cmd.Wait(); err != nil {
		return xerror.Errorf("%s exited with error: %w: %s", p.tail.name, err, p.tail.String())
	}
	return nil
}

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

// stderrTail forwards every stderr line to the debug log and keeps the last
// few for error messages.
type stderrTail struct {
	name    string
	mu      sync.Mutex
	partial []byte
	lines   []string
}

func newStderrTail(name string) *stderrTail {
	return &stderrTail{name: name}
}

func (t *stderrTail) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.partial = append(t.partial, p...)
	for {
		i := bytes.IndexAny(t.partial, "\r\n")
		if i < 0 {
			break
		}
		line := strings.TrimSpace(string(t.partial[:i]))
		t.partial = t.partial[i+1:]
		if len(line) > 0 {
			t.push(line)
		}
	}
	return len(p), nil
}

func (t *stderrTail) push(line string) {
	log.Debug("[%s] %s", t.name, line)
	t.lines = append(t.lines, line)
	if len(t.lines) > stderrTailLines {
		t.lines = t.lines[len(t.lines)-stderrTailLines:]
	}
}

func (t *stderrTail) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	lines := t.lines
	if len(t.partial) > 0 {
		lines = append(append([]string{}, lines...), string(t.partial))
	}
	return strings.Join(lines, "\n")
}
