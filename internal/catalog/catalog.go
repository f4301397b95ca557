// Package catalog holds the reactive product catalog: cached backend
// collections, the local CRUD overlay, the selection and filter cursors and
// the supplier lookup that follows the selection.
//
// Every stream in the graph is confined to a single loop goroutine. Commands
// post onto the loop, so they are safe from any goroutine, including from
// inside a subscriber callback.
package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/product-catalog-state/internal/model"
	"github.com/fairyhunter13/product-catalog-state/internal/obs"
	"github.com/fairyhunter13/product-catalog-state/internal/queue"
	"github.com/fairyhunter13/product-catalog-state/internal/rx"
	"github.com/fairyhunter13/product-catalog-state/internal/store"
)

// AllCategories is the filter value that matches every product.
const AllCategories = 0

// Options tunes a State. Zero values fall back to the defaults.
type Options struct {
	// InitialSelection is the product id selected at startup. Default 1.
	InitialSelection int
	// Markup multiplies raw prices. Default 1.5.
	Markup        decimal.Decimal
	HighWatermark int
	Logger        *obs.Logger
	Metrics       *obs.Metrics
}

type State struct {
	loop    *queue.Loop
	src     Source
	log     *obs.Logger
	metrics *obs.Metrics
	markup  decimal.Decimal

	errs *ErrorChannel

	categories           *rx.Replay[[]model.Category]
	productsWithCategory *rx.Replay[[]model.Product]

	added   *rx.Subject[model.Product]
	deleted *rx.Subject[int]
	edited  *rx.Subject[model.Product]
	updated *rx.Replay[[]model.Product]

	selection *rx.Behavior[int]
	filter    *rx.Behavior[int]
	filtered  *rx.Replay[[]model.Product]
	selected  *rx.Replay[*model.Product]
	suppliers *rx.Replay[[]model.Supplier]
	loading   *rx.Behavior[bool]
	detail    *rx.Replay[*Detail]
}

// New builds the stream graph over src. Nothing is fetched until a view is
// subscribed or Connect is called, and nothing runs until Start.
func New(src Source, opts Options) *State {
	if opts.InitialSelection == 0 {
		opts.InitialSelection = 1
	}
	if opts.Markup.IsZero() {
		opts.Markup = DefaultMarkup
	}
	s := &State{
		loop:      queue.NewLoop(queue.New[func()](64, opts.Logger), opts.Logger, opts.HighWatermark),
		src:       src,
		log:       opts.Logger,
		metrics:   opts.Metrics,
		markup:    opts.Markup,
		errs:      newErrorChannel(opts.Logger, opts.Metrics),
		added:     rx.NewSubject[model.Product](),
		deleted:   rx.NewSubject[int](),
		edited:    rx.NewSubject[model.Product](),
		selection: rx.NewBehavior(opts.InitialSelection),
		filter:    rx.NewBehavior(AllCategories),
		loading:   rx.NewBehavior(false),
	}
	s.build()
	return s
}

func (s *State) build() {
	products := rx.FromFetch(s.loop, s.fetchProducts, s.errs.reporter("products"))
	s.categories = rx.NewReplay(rx.FromFetch(s.loop, s.fetchCategories, s.errs.reporter("categories")))
	s.productsWithCategory = rx.NewReplay(rx.CombineLatest2(products, rx.Observable[[]model.Category](s.categories),
		func(ps []model.Product, cs []model.Category) []model.Product {
			return JoinCategories(ps, cs, s.markup)
		}))

	mutations := rx.Merge(
		rx.Map(rx.Observable[[]model.Product](s.productsWithCategory), model.Seed),
		rx.Map(rx.Observable[model.Product](s.added), model.Upsert),
		rx.Map(rx.Observable[int](s.deleted), model.Delete),
		rx.Map(rx.Observable[model.Product](s.edited), model.Upsert),
	)
	mutations = rx.Tap(mutations, func(m model.Mutation) {
		s.metrics.IncMutation(m.Kind.String())
		s.log.Debug(s.log.WithFields(context.Background(), map[string]any{"kind": m.Kind.String(), "id": m.ID}), "mutation")
	})
	s.updated = rx.NewReplay(rx.Scan(mutations, []model.Product{}, store.Fold))

	updated := rx.Observable[[]model.Product](s.updated)
	s.filtered = rx.NewReplay(rx.CombineLatest2(updated, rx.Observable[int](s.filter),
		func(ps []model.Product, categoryID int) []model.Product {
			return store.FilterByCategory(ps, categoryID, categoryID == AllCategories)
		}))

	s.selected = rx.NewReplay(rx.DistinctUntilChanged(
		rx.CombineLatest2(updated, rx.Observable[int](s.selection), store.Find),
		sameProduct))

	s.suppliers = rx.NewReplay(rx.SwitchMap(rx.Observable[*model.Product](s.selected), s.suppliersFor))

	s.detail = rx.NewReplay(rx.CombineLatest2(
		rx.Observable[*model.Product](s.selected), rx.Observable[[]model.Supplier](s.suppliers), buildDetail))
}

// Start runs the loop. It is a no-op after the first call.
func (s *State) Start(ctx context.Context) { s.loop.Start(ctx) }

// Close stops the loop and cancels every in-flight fetch.
func (s *State) Close() { s.loop.Stop() }

// Settle blocks until the loop is idle with no fetch in flight. It reports
// false when ctx ends first.
func (s *State) Settle(ctx context.Context) bool { return s.loop.DrainUntil(ctx) }

// Connect subscribes every cached view so that snapshots stay current
// without any other subscriber.
func (s *State) Connect() bool {
	return s.loop.Post(func() {
		s.categories.Connect()
		s.productsWithCategory.Connect()
		s.updated.Connect()
		s.filtered.Connect()
		s.selected.Connect()
		s.suppliers.Connect()
		s.detail.Connect()
	})
}

// The views below must be subscribed on the loop. Use Watch from other
// goroutines.

func (s *State) Categories() rx.Observable[[]model.Category] { return s.categories }
func (s *State) ProductsWithCategory() rx.Observable[[]model.Product] { return s.productsWithCategory }
func (s *State) UpdatedProducts() rx.Observable[[]model.Product] { return s.updated }
func (s *State) FilteredProducts() rx.Observable[[]model.Product] { return s.filtered }
func (s *State) SelectedProduct() rx.Observable[*model.Product] { return s.selected }
func (s *State) SelectedSuppliers() rx.Observable[[]model.Supplier] { return s.suppliers }
func (s *State) SuppliersLoading() rx.Observable[bool] { return s.loading }
func (s *State) SelectedDetail() rx.Observable[*Detail] { return s.detail }
func (s *State) Selection() rx.Observable[int] { return s.selection }
func (s *State) CategoryFilter() rx.Observable[int] { return s.filter }
func (s *State) Errors() rx.Observable[string] { return s.errs.Messages() }

// Watch subscribes fn to src on the loop of s. fn runs on the loop and must
// not block. The returned func unsubscribes.
func Watch[T any](s *State, src rx.Observable[T], fn func(T)) func() {
	var sub rx.Subscription
	s.loop.Post(func() { sub = src.Subscribe(fn) })
	return func() {
		s.loop.Post(func() {
			if sub != nil {
				sub()
			}
		})
	}
}

// Snapshot is a point-in-time copy of every view. A view that has not
// produced a value yet is nil.
type Snapshot struct {
	Categories           []model.Category
	ProductsWithCategory []model.Product
	UpdatedProducts      []model.Product
	FilteredProducts     []model.Product
	SelectedProduct      *model.Product
	Suppliers            []model.Supplier
	SuppliersLoading     bool
	Detail               *Detail
	Selection            int
	CategoryFilter       int
	LastError            string
}

// Snapshot reads the cached views. Safe from any goroutine.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		SuppliersLoading: s.loading.Value(),
		Selection:        s.selection.Value(),
		CategoryFilter:   s.filter.Value(),
	}
	snap.Categories, _ = s.categories.Value()
	snap.ProductsWithCategory, _ = s.productsWithCategory.Value()
	snap.UpdatedProducts, _ = s.updated.Value()
	snap.FilteredProducts, _ = s.filtered.Value()
	snap.SelectedProduct, _ = s.selected.Value()
	snap.Suppliers, _ = s.suppliers.Value()
	snap.Detail, _ = s.detail.Value()
	snap.LastError, _ = s.errs.Latest()
	return snap
}

// LoopStats describes the command loop backlog.
type LoopStats struct {
	Enqueued  uint64 `json:"tasks_enqueued"`
	Processed uint64 `json:"tasks_processed"`
	Backlog   int    `json:"backlog_size"`
	Depth     int    `json:"queue_depth"`
	InFlight  int    `json:"fetches_in_flight"`
}

func (s *State) LoopStats() LoopStats {
	enq, proc, backlog, depth := s.loop.QueueMetrics()
	return LoopStats{Enqueued: enq, Processed: proc, Backlog: backlog, Depth: depth, InFlight: s.loop.InFlight()}
}
