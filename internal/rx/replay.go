package rx

import "sync"

// Replay is a multicast cache cell with a replay buffer of one. The first
// subscriber connects it to the upstream; later subscribers share that one
// upstream subscription and immediately receive the latest value. The
// upstream stays connected, and the value cached, until Disconnect.
type Replay[T any] struct {
	upstream Observable[T]

	mu    sync.RWMutex
	value T
	has   bool

	obs       observers[T]
	connected bool
	conn      Subscription
}

func NewReplay[T any](upstream Observable[T]) *Replay[T] {
	return &Replay[T]{upstream: upstream}
}

func (r *Replay[T]) Subscribe(next func(T)) Subscription {
	ob := r.obs.add(next)
	if v, ok := r.Value(); ok {
		next(v)
	}
	r.Connect()
	return func() { r.obs.remove(ob) }
}

// Connect subscribes to the upstream if that has not happened yet.
func (r *Replay[T]) Connect() {
	if r.connected {
		return
	}
	r.connected = true
	r.conn = r.upstream.Subscribe(r.push)
}

// Disconnect drops the upstream subscription and the cached value. The next
// subscriber reconnects.
func (r *Replay[T]) Disconnect() {
	if !r.connected {
		return
	}
	r.connected = false
	if r.conn != nil {
		r.conn()
		r.conn = nil
	}
	r.mu.Lock()
	var zero T
	r.value, r.has = zero, false
	r.mu.Unlock()
}

// Value returns the latest value, if any. Safe from any goroutine.
func (r *Replay[T]) Value() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value, r.has
}

// Subscribers returns the number of downstream subscribers.
func (r *Replay[T]) Subscribers() int { return r.obs.len() }

func (r *Replay[T]) push(v T) {
	r.mu.Lock()
	r.value, r.has = v, true
	r.mu.Unlock()
	r.obs.emit(v)
}
