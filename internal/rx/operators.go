package rx

// Map transforms every value.
func Map[T, U any](src Observable[T], f func(T) U) Observable[U] {
	return Func[U](func(next func(U)) Subscription {
		return src.Subscribe(func(v T) { next(f(v)) })
	})
}

// Filter forwards values for which keep returns true.
func Filter[T any](src Observable[T], keep func(T) bool) Observable[T] {
	return Func[T](func(next func(T)) Subscription {
		return src.Subscribe(func(v T) {
			if keep(v) {
				next(v)
			}
		})
	})
}

// Tap runs fn for every value before forwarding it.
func Tap[T any](src Observable[T], fn func(T)) Observable[T] {
	return Func[T](func(next func(T)) Subscription {
		return src.Subscribe(func(v T) {
			fn(v)
			next(v)
		})
	})
}

// Merge interleaves the values of all sources in arrival order.
func Merge[T any](srcs ...Observable[T]) Observable[T] {
	return Func[T](func(next func(T)) Subscription {
		subs := make([]Subscription, 0, len(srcs))
		for _, src := range srcs {
			subs = append(subs, src.Subscribe(next))
		}
		return func() {
			for _, s := range subs {
				s()
			}
		}
	})
}

// Scan folds every value into an accumulator and emits each intermediate
// result. Every subscription starts from seed.
func Scan[T, A any](src Observable[T], seed A, f func(A, T) A) Observable[A] {
	return Func[A](func(next func(A)) Subscription {
		acc := seed
		return src.Subscribe(func(v T) {
			acc = f(acc, v)
			next(acc)
		})
	})
}

// CombineLatest2 emits f(latestA, latestB) whenever either source emits,
// once both have emitted at least once.
func CombineLatest2[A, B, R any](a Observable[A], b Observable[B], f func(A, B) R) Observable[R] {
	return Func[R](func(next func(R)) Subscription {
		var (
			la         A
			lb         B
			hasA, hasB bool
		)
		subA := a.Subscribe(func(v A) {
			la, hasA = v, true
			if hasB {
				next(f(la, lb))
			}
		})
		subB := b.Subscribe(func(v B) {
			lb, hasB = v, true
			if hasA {
				next(f(la, lb))
			}
		})
		return func() {
			subA()
			subB()
		}
	})
}

// DistinctUntilChanged suppresses values equal to the previous one.
func DistinctUntilChanged[T any](src Observable[T], equal func(a, b T) bool) Observable[T] {
	return Func[T](func(next func(T)) Subscription {
		var (
			last T
			has  bool
		)
		return src.Subscribe(func(v T) {
			if has && equal(last, v) {
				return
			}
			last, has = v, true
			next(v)
		})
	})
}
