package rx

import (
	"context"

	"github.com/fairyhunter13/product-catalog-state/internal/queue"
)

// FromFetch is a cold source: every subscription runs fetch once on its own
// goroutine and delivers the result back on the loop. A failure goes to
// onError and the subscriber sees nothing. Unsubscribing cancels the fetch
// context and discards whatever it later returns, value or error.
func FromFetch[T any](loop *queue.Loop, fetch func(context.Context) (T, error), onError func(error)) Observable[T] {
	return Func[T](func(next func(T)) Subscription {
		ctx, cancel := context.WithCancel(loop.Context())
		active := true
		loop.Go(ctx, func(ctx context.Context) func() {
			v, err := fetch(ctx)
			return func() {
				defer cancel()
				if !active {
					return
				}
				if err != nil {
					if onError != nil {
						onError(err)
					}
					return
				}
				next(v)
			}
		})
		return func() {
			active = false
			cancel()
		}
	})
}
