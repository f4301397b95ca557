// Package rx provides the small set of push-based stream combinators the
// catalog state is built from.
//
// Nothing in this package is safe for concurrent use. Every Subscribe,
// Next and callback is expected to run on one goroutine, normally a
// queue.Loop; asynchronous work re-enters through Loop.Go (see FromFetch).
// The only exceptions are Behavior.Value and Replay.Value, which may be read
// from anywhere.
package rx

// Subscription cancels a subscription. Calling it more than once is safe.
type Subscription func()

// Observable is a stream of values.
type Observable[T any] interface {
	Subscribe(next func(T)) Subscription
}

// Func adapts a subscribe function to Observable.
type Func[T any] func(next func(T)) Subscription

func (f Func[T]) Subscribe(next func(T)) Subscription { return f(next) }

func noop() {}

// Just emits v synchronously to every subscriber.
func Just[T any](v T) Observable[T] {
	return Func[T](func(next func(T)) Subscription {
		next(v)
		return noop
	})
}

// Empty never emits.
func Empty[T any]() Observable[T] {
	return Func[T](func(func(T)) Subscription { return noop })
}

type observer[T any] struct {
	fn     func(T)
	active bool
}

// observers is an ordered subscriber list. Removing an observer during an
// emission prevents it from receiving the value in flight.
type observers[T any] struct {
	entries []*observer[T]
}

func (o *observers[T]) add(fn func(T)) *observer[T] {
	ob := &observer[T]{fn: fn, active: true}
	o.entries = append(o.entries, ob)
	return ob
}

func (o *observers[T]) remove(ob *observer[T]) {
	if !ob.active {
		return
	}
	ob.active = false
	for i, e := range o.entries {
		if e == ob {
			o.entries = append(o.entries[:i:i], o.entries[i+1:]...)
			return
		}
	}
}

func (o *observers[T]) emit(v T) {
	snapshot := o.entries
	for _, ob := range snapshot {
		if ob.active {
			ob.fn(v)
		}
	}
}

func (o *observers[T]) len() int { return len(o.entries) }
