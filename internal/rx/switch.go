package rx

import "github.com/fairyhunter13/product-catalog-state/internal/queue"

// SwitchMap maps every outer value to an inner stream and forwards only the
// most recent inner stream. A new outer value unsubscribes the previous
// inner stream, and anything it still delivers is dropped because its
// generation is no longer current.
func SwitchMap[T, U any](src Observable[T], project func(T) Observable[U]) Observable[U] {
	return Func[U](func(next func(U)) Subscription {
		var (
			gens  queue.Sequencer
			inner Subscription = noop
		)
		outer := src.Subscribe(func(v T) {
			inner()
			gen := gens.Next()
			inner = project(v).Subscribe(func(u U) {
				if gens.IsCurrent(gen) {
					next(u)
				}
			})
		})
		return func() {
			outer()
			inner()
			gens.Next()
		}
	})
}
