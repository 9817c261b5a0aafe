package process

import (
	"context"
	"sync"

	"github.com/tauraamui/vidupscale/pkg/log"
	"github.com/tauraamui/vidupscale/pkg/video/videobackend"
)

// DefaultConsumers is the default size of the output consumer pool.
const DefaultConsumers = 4

// WriteFailure records a result which could not be written.
type WriteFailure struct {
	Index    int
	SavePath string
	Err      error
}

// ConsumerPool drains the result queue with a fixed number of writers.
// Write order across writers is not defined.
type ConsumerPool struct {
	queue   *ResultQueue
	backend videobackend.Backend
	size    int
	proc    Process

	mu       sync.Mutex
	written  int
	failures []WriteFailure
}

func NewConsumerPool(queue *ResultQueue, backend videobackend.Backend, size int) *ConsumerPool {
	if size < 1 {
		size = DefaultConsumers
	}
	p := &ConsumerPool{queue: queue, backend: backend, size: size}
	p.proc = New(Settings{Process: p.run})
	return p
}

func (p *ConsumerPool) Size() int { return p.size }

func (p *ConsumerPool) Start() { p.proc.Start() }

func (p *ConsumerPool) run(_ context.Context) []chan interface{} {
	signals := make([]chan interface{}, 0, p.size)
	for i := 0; i < p.size; i++ {
		stopped := make(chan interface{})
		signals = append(signals, stopped)
		go p.consume(i, stopped)
	}
	return signals
}

func (p *ConsumerPool) consume(id int, stopped chan interface{}) {
	defer close(stopped)
	for {
		msg := p.queue.Get()
		if msg.IsShutdown() {
			log.Debug("Output consumer %d finished", id)
			return
		}

		res := msg.Result
		if err := p.backend.WriteImage(res.SavePath, res.Image); err != nil {
			log.Error("Unable to write frame %d to %s: %v", res.Index, res.SavePath, err)
			p.mu.Lock()
			p.failures = append(p.failures, WriteFailure{Index: res.Index, SavePath: res.SavePath, Err: err})
			p.mu.Unlock()
			continue
		}

		p.mu.Lock()
		p.written++
		p.mu.Unlock()
	}
}

// Shutdown queues one sentinel per consumer and waits for all of them
// to exit.
func (p *ConsumerPool) Shutdown() {
	for i := 0; i < p.size; i++ {
		p.queue.Put(Shutdown())
	}
	p.proc.Wait()
}

func (p *ConsumerPool) Written() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

func (p *ConsumerPool) Failures() []WriteFailure {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]WriteFailure{}, p.failures...)
}
