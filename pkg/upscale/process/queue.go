package process

import "sync"

// Message travels through the result queue, either carrying a result or
// telling the consumer which receives it to stop.
type Message struct {
	Result   EnhancedResult
	shutdown bool
}

// Shutdown builds the sentinel message. Exactly one is queued per consumer.
func Shutdown() Message {
	return Message{shutdown: true}
}

func (m Message) IsShutdown() bool { return m.shutdown }

// ResultQueue is an unbounded FIFO shared by the enhancement stage and the
// output consumers.
type ResultQueue struct {
	mu        sync.Mutex
	cond      *sync.Cond
	items     []Message
	sentinels int
}

func NewResultQueue() *ResultQueue {
	q := &ResultQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *ResultQueue) Put(m Message) {
	q.mu.Lock()
	q.items = append(q.items, m)
	if m.IsShutdown() {
		q.sentinels++
	}
	q.mu.Unlock()
	q.cond.Signal()
}

// Get blocks until a message is available.
func (q *ResultQueue) Get() Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 {
		q.cond.Wait()
	}
	m := q.items[0]
	q.items[0] = Message{}
	q.items = q.items[1:]
	return m
}

func (q *ResultQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Sentinels counts every shutdown message ever queued.
func (q *ResultQueue) Sentinels() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sentinels
}

// Discard drops pending results, keeping queued sentinels, and returns how
// many were dropped.
func (q *ResultQueue) Discard() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.items[:0]
	dropped := 0
	for _, m := range q.items {
		if m.IsShutdown() {
			kept = append(kept, m)
			continue
		}
		dropped++
	}
	q.items = kept
	return dropped
}
