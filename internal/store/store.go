// Package store implements the reducer that folds mutations into the
// materialized product collection.
package store

import (
	"slices"

	"github.com/fairyhunter13/product-catalog-state/internal/model"
)

// Fold applies one mutation to the collection and returns the new
// collection. The input slice is never modified, so values already handed
// to subscribers stay stable. Ids stay unique in the result, and a seeded
// collection is never nil, even when the catalog is empty.
func Fold(acc []model.Product, m model.Mutation) []model.Product {
	switch m.Kind {
	case model.MutationSeed:
		next := slices.Clone(acc)
		if next == nil {
			next = make([]model.Product, 0, len(m.Products))
		}
		for _, p := range m.Products {
			next = upsert(next, p)
		}
		return next
	case model.MutationDelete:
		idx := indexOf(acc, m.ID)
		if idx < 0 {
			return acc
		}
		return slices.Delete(slices.Clone(acc), idx, idx+1)
	case model.MutationUpsert:
		return upsert(slices.Clone(acc), m.Product)
	default:
		return acc
	}
}

// upsert replaces in place or appends; it mutates next.
func upsert(next []model.Product, p model.Product) []model.Product {
	if idx := indexOf(next, p.ID); idx >= 0 {
		next[idx] = p
		return next
	}
	return append(next, p)
}

func indexOf(products []model.Product, id int) int {
	return slices.IndexFunc(products, func(p model.Product) bool { return p.ID == id })
}

// Find returns the product with the given id, or nil.
func Find(products []model.Product, id int) *model.Product {
	idx := indexOf(products, id)
	if idx < 0 {
		return nil
	}
	p := products[idx]
	return &p
}

// FilterByCategory keeps products referencing categoryID. When all is true
// the collection is returned unchanged.
func FilterByCategory(products []model.Product, categoryID int, all bool) []model.Product {
	if all {
		return products
	}
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.InCategory(categoryID) {
			out = append(out, p)
		}
	}
	return out
}
