package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/product-catalog-state/internal/obs"
)

// Queue is an unbounded FIFO with a background broker that feeds a
// buffered output channel. Enqueue never blocks.
type Queue[T any] struct {
	mu           sync.Mutex
	backlog      []T
	notify       chan struct{}
	out          chan T
	shuttingDown atomic.Bool
	log          *obs.Logger

	enqueued  atomic.Uint64
	processed atomic.Uint64
}

// New creates a Queue with a buffered output channel.
func New[T any](outBuffer int, log *obs.Logger) *Queue[T] {
	if outBuffer <= 0 {
		outBuffer = 64
	}
	return &Queue[T]{
		notify: make(chan struct{}, 1),
		out:    make(chan T, outBuffer),
		log:    log,
	}
}

// Start runs the broker loop.
func (q *Queue[T]) Start(ctx context.Context, highWatermark int) {
	go q.broker(ctx, highWatermark)
}

// broker moves backlog items to the output channel.
func (q *Queue[T]) broker(ctx context.Context, highWatermark int) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		q.flushOnce()
		if highWatermark > 0 {
			if sz := q.BacklogSize(); sz > highWatermark {
				q.log.Warn(q.log.WithFields(ctx, map[string]any{
					"backlog_size":   sz,
					"high_watermark": highWatermark,
				}), "queue backlog exceeds high watermark")
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		case <-ticker.C:
		}
	}
}

// flushOnce drains backlog into the output buffer.
func (q *Queue[T]) flushOnce() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.backlog) > 0 && len(q.out) < cap(q.out) {
		item := q.backlog[0]
		var zero T
		q.backlog[0] = zero
		q.backlog = q.backlog[1:]
		q.out <- item
	}
}

// Enqueue appends an item into the backlog and notifies the broker.
func (q *Queue[T]) Enqueue(item T) bool {
	if q.shuttingDown.Load() {
		return false
	}
	q.enqueued.Add(1)
	q.mu.Lock()
	q.backlog = append(q.backlog, item)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

// Out exposes the output channel.
func (q *Queue[T]) Out() <-chan T { return q.out }

// BacklogSize returns the number of enqueued-but-not-yet-output items.
func (q *Queue[T]) BacklogSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// QueueDepth returns backlog plus buffered output items.
func (q *Queue[T]) QueueDepth() int {
	q.mu.Lock()
	bl := len(q.backlog)
	q.mu.Unlock()
	return bl + len(q.out)
}

// MarkProcessed increases the processed counter.
func (q *Queue[T]) MarkProcessed() { q.processed.Add(1) }

// Metrics returns counters and sizes for observability.
func (q *Queue[T]) Metrics() (enq, proc uint64, backlog, depth int) {
	enq = q.enqueued.Load()
	proc = q.processed.Load()
	backlog = q.BacklogSize()
	depth = q.QueueDepth()
	return enq, proc, backlog, depth
}

// CloseIntake disallows future enqueues.
func (q *Queue[T]) CloseIntake() { q.shuttingDown.Store(true) }

// IsShuttingDown reports if intake has been closed.
func (q *Queue[T]) IsShuttingDown() bool { return q.shuttingDown.Load() }
