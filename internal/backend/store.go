// Package backend is a self-contained in-memory catalog backend. It serves
// the REST routes the HTTP client reads and can also be used directly as a
// catalog source.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/fairyhunter13/product-catalog-state/internal/apperrors"
	"github.com/fairyhunter13/product-catalog-state/internal/model"
)

// Store holds backend data. Reads return copies; the stored slices are never
// handed out.
type Store struct {
	mu         sync.RWMutex
	products   []model.Product
	categories []model.Category
	suppliers  map[int]model.Supplier
	latency    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLatency delays every read by d, honouring cancellation.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// WithData replaces the seed data.
func WithData(products []model.Product, categories []model.Category, suppliers []model.Supplier) Option {
	return func(s *Store) {
		s.products = slices.Clone(products)
		s.categories = slices.Clone(categories)
		s.suppliers = make(map[int]model.Supplier, len(suppliers))
		for _, sup := range suppliers {
			s.suppliers[sup.ID] = sup
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{}
	WithData(SeedProducts(), SeedCategories(), SeedSuppliers())(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *Store) FetchProducts(ctx context.Context) ([]model.Product, error) {
	if err := s.wait(ctx); err != nil {
		return nil, apperrors.Client(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.products))
	for i, p := range s.products {
		p.SupplierIDs = slices.Clone(p.SupplierIDs)
		out[i] = p
	}
	return out, nil
}

func (s *Store) FetchCategories(ctx context.Context) ([]model.Category, error) {
	if err := s.wait(ctx); err != nil {
		return nil, apperrors.Client(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Category{}, s.categories...), nil
}

// FetchSupplier returns a 404 backend error for unknown ids.
func (s *Store) FetchSupplier(ctx context.Context, id int) (model.Supplier, error) {
	if err := s.wait(ctx); err != nil {
		return model.Supplier{}, apperrors.Client(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sup, ok := s.suppliers[id]
	if !ok {
		return model.Supplier{}, apperrors.Backend(http.StatusNotFound, fmt.Sprintf("supplier %d not found", id))
	}
	return sup, nil
}

// Suppliers lists every supplier ordered by id.
func (s *Store) Suppliers(ctx context.Context) ([]model.Supplier, error) {
	if err := s.wait(ctx); err != nil {
		return nil, apperrors.Client(err)
	}
	s.mu.RLock()
	out := make([]model.Supplier, 0, len(s.suppliers))
	for _, sup := range s.suppliers {
		out = append(out, sup)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
