package rx

import "sync"

// Subject is a hot multicast stream without replay. Values pushed while
// nobody is subscribed are lost.
type Subject[T any] struct {
	obs observers[T]
}

func NewSubject[T any]() *Subject[T] { return &Subject[T]{} }

// Next delivers v to the current subscribers.
func (s *Subject[T]) Next(v T) { s.obs.emit(v) }

func (s *Subject[T]) Subscribe(next func(T)) Subscription {
	ob := s.obs.add(next)
	return func() { s.obs.remove(ob) }
}

// Behavior is a Subject that always holds a current value and hands it to
// every new subscriber first.
type Behavior[T any] struct {
	mu    sync.RWMutex
	value T
	obs   observers[T]
}

func NewBehavior[T any](initial T) *Behavior[T] {
	return &Behavior[T]{value: initial}
}

// Next stores v and delivers it to the current subscribers.
func (b *Behavior[T]) Next(v T) {
	b.mu.Lock()
	b.value = v
	b.mu.Unlock()
	b.obs.emit(v)
}

// Value returns the current value. Safe from any goroutine.
func (b *Behavior[T]) Value() T {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

func (b *Behavior[T]) Subscribe(next func(T)) Subscription {
	ob := b.obs.add(next)
	next(b.Value())
	return func() { b.obs.remove(ob) }
}
