package catalog

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/fairyhunter13/product-catalog-state/internal/model"
	"github.com/fairyhunter13/product-catalog-state/internal/rx"
)

// Detail is the combined view backing the product detail page.
type Detail struct {
	Product   model.Product    `json:"product"`
	Suppliers []model.Supplier `json:"suppliers"`
	PageTitle string           `json:"pageTitle"`
}

// PageTitle is the detail page heading for a product.
func PageTitle(p model.Product) string {
	return fmt.Sprintf("Product Detail for: %s", p.ProductName)
}

// suppliersFor is the inner stream for one selected product. It runs on the
// loop each time the selected record changes.
func (s *State) suppliersFor(p *model.Product) rx.Observable[[]model.Supplier] {
	if p == nil || len(p.SupplierIDs) == 0 {
		s.loading.Next(false)
		return rx.Just([]model.Supplier{})
	}
	ids := slices.Clone(p.SupplierIDs)
	logCtx := s.log.WithFields(context.Background(), map[string]any{"product_id": p.ID, "suppliers": len(ids)})

	return rx.Func[[]model.Supplier](func(next func([]model.Supplier)) rx.Subscription {
		settled := false
		s.loading.Next(true)
		s.log.Debug(logCtx, "fetching suppliers")
		inner := rx.FromFetch(s.loop,
			func(ctx context.Context) ([]model.Supplier, error) { return s.fetchSuppliers(ctx, ids) },
			func(err error) {
				settled = true
				s.loading.Next(false)
				s.errs.Report("suppliers", err)
				// the previous product's list must not outlive the selection
				next([]model.Supplier{})
			})
		sub := inner.Subscribe(func(list []model.Supplier) {
			settled = true
			s.loading.Next(false)
			next(list)
		})
		return func() {
			if !settled {
				s.metrics.IncSuperseded()
				s.log.Debug(logCtx, "supplier fetch superseded")
			}
			sub()
		}
	})
}

// fetchSuppliers fetches every id concurrently. The result keeps id order;
// any single failure fails the whole batch.
func (s *State) fetchSuppliers(ctx context.Context, ids []int) ([]model.Supplier, error) {
	out := make([]model.Supplier, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			sup, err := s.fetchSupplier(gctx, id)
			if err != nil {
				return err
			}
			out[i] = sup
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildDetail(p *model.Product, suppliers []model.Supplier) *Detail {
	if p == nil {
		return nil
	}
	return &Detail{Product: *p, Suppliers: suppliers, PageTitle: PageTitle(*p)}
}

func sameProduct(a, b *model.Product) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
