// Package queue implements the in-memory task queue and the single-worker
// loop that serializes all catalog state changes.
package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/product-catalog-state/internal/obs"
)

const drainPollInterval = 5 * time.Millisecond

// Loop runs posted tasks one at a time, in order, on a single goroutine.
// Blocking work goes through Go so it never stalls the loop.
type Loop struct {
	q             *Queue[func()]
	log           *obs.Logger
	highWatermark int

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	inflight atomic.Int64
}

// NewLoop constructs a Loop over the given queue.
func NewLoop(q *Queue[func()], log *obs.Logger, highWatermark int) *Loop {
	return &Loop{q: q, log: log, highWatermark: highWatermark}
}

// Start begins processing in the background. Calling Start twice is a no-op.
func (l *Loop) Start(parent context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.done != nil {
		return
	}
	l.ctx, l.cancel = context.WithCancel(parent)
	l.done = make(chan struct{})
	l.q.Start(l.ctx, l.highWatermark)
	go l.worker(l.ctx, l.done)
}

// Stop closes intake, cancels the loop context and waits for the worker.
func (l *Loop) Stop() {
	l.q.CloseIntake()
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Context returns the loop lifetime context. It is cancelled by Stop.
func (l *Loop) Context() context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctx == nil {
		return context.Background()
	}
	return l.ctx
}

// worker runs tasks from the queue until the context is done.
func (l *Loop) worker(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-l.q.Out():
			l.run(ctx, task)
			l.q.MarkProcessed()
		}
	}
}

func (l *Loop) run(ctx context.Context, task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error(ctx, "loop task panicked", fmt.Errorf("panic: %v", r))
		}
	}()
	task()
}

// Post schedules fn on the loop. It returns false once the loop is stopping.
func (l *Loop) Post(fn func()) bool { return l.q.Enqueue(fn) }

// Go runs task on its own goroutine and posts the continuation it returns
// (if any) back onto the loop. The task counts as in flight until its
// continuation has been queued.
func (l *Loop) Go(ctx context.Context, task func(context.Context) func()) {
	l.inflight.Add(1)
	go func() {
		defer l.inflight.Add(-1)
		if cont := task(ctx); cont != nil {
			l.Post(cont)
		}
	}()
}

// InFlight returns the number of Go tasks that have not finished.
func (l *Loop) InFlight() int { return int(l.inflight.Load()) }

// BacklogSize returns pending tasks.
func (l *Loop) BacklogSize() int { return l.q.BacklogSize() }

// QueueMetrics exposes the underlying queue metrics.
func (l *Loop) QueueMetrics() (enq, proc uint64, backlog, depth int) {
	return l.q.Metrics()
}

// DrainUntil blocks until every posted task has run and no Go task is in
// flight, or until ctx is done.
func (l *Loop) DrainUntil(ctx context.Context) bool {
	for {
		// inflight is read first: a finishing task queues its continuation
		// before it stops counting as in flight.
		busy := l.inflight.Load()
		enq, proc, backlog, depth := l.q.Metrics()
		if busy == 0 && backlog == 0 && depth == 0 && enq == proc {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(drainPollInterval):
		}
	}
}
