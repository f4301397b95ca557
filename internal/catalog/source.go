package catalog

import (
	"context"
	"time"

	"github.com/fairyhunter13/product-catalog-state/internal/model"
)

// Source is the backend the catalog reads from. Implementations must honour
// ctx cancellation and may be called from any goroutine.
type Source interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
	FetchCategories(ctx context.Context) ([]model.Category, error)
	FetchSupplier(ctx context.Context, id int) (model.Supplier, error)
}

// instrument wraps fetch with duration metrics and a debug log of the
// payload size.
func instrument[T any](s *State, resource string, size func(T) int, fetch func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		start := time.Now()
		v, err := fetch(ctx)
		s.metrics.ObserveFetch(resource, time.Since(start), err)
		if err == nil {
			logCtx := s.log.WithFields(ctx, map[string]any{"resource": resource, "items": size(v)})
			s.log.Debug(logCtx, "fetched")
		}
		return v, err
	}
}

func (s *State) fetchProducts(ctx context.Context) ([]model.Product, error) {
	return instrument(s, "products", lenOf[model.Product], s.src.FetchProducts)(ctx)
}

// fetchCategories never yields nil on success, since a nil view means the
// view has not produced a value yet.
func (s *State) fetchCategories(ctx context.Context) ([]model.Category, error) {
	cs, err := instrument(s, "categories", lenOf[model.Category], s.src.FetchCategories)(ctx)
	if err == nil && cs == nil {
		cs = []model.Category{}
	}
	return cs, err
}

func (s *State) fetchSupplier(ctx context.Context, id int) (model.Supplier, error) {
	fetch := func(ctx context.Context) (model.Supplier, error) { return s.src.FetchSupplier(ctx, id) }
	return instrument(s, "supplier", func(model.Supplier) int { return 1 }, fetch)(ctx)
}

func lenOf[T any](v []T) int { return len(v) }
