package process

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

const timerWindow = 200

var now = time.Now

// Progress reports throughput over a rolling window of frame times.
type Progress struct {
	mu      sync.Mutex
	bar     *progressbar.ProgressBar
	last    time.Time
	window  []time.Duration
	next    int
	total   time.Duration
	records int
}

// NewProgress renders to w, a negative total draws a spinner.
func NewProgress(total int, w io.Writer) *Progress {
	if w == nil {
		w = io.Discard
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("upscaling"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("frames"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
	return &Progress{bar: bar, last: now()}
}

// Record marks one frame as processed.
func (p *Progress) Record(index int) {
	p.mu.Lock()
	t := now()
	elapsed := t.Sub(p.last)
	p.last = t
	if len(p.window) < timerWindow {
		p.window = append(p.window, elapsed)
	} else {
		p.total -= p.window[p.next]
		p.window[p.next] = elapsed
		p.next = (p.next + 1) % timerWindow
	}
	p.total += elapsed
	p.records++
	fps := p.fps()
	p.mu.Unlock()

	p.bar.Describe(fmt.Sprintf("idx %d, fps %.2f", index, fps))
	p.bar.Add(1)
}

func (p *Progress) fps() float64 {
	if len(p.window) == 0 || p.total <= 0 {
		return 0
	}
	avg := p.total / time.Duration(len(p.window))
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// FPS is the throughput averaged over the most recent frames.
func (p *Progress) FPS() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fps()
}

func (p *Progress) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.records
}

func (p *Progress) Finish() {
	p.bar.Finish()
}
