package model

// MutationKind tags a Mutation.
type MutationKind int

const (
	// MutationSeed appends a batch of products.
	MutationSeed MutationKind = iota + 1
	// MutationDelete removes the product with the given id.
	MutationDelete
	// MutationUpsert replaces the product with the same id or appends it.
	MutationUpsert
)

func (k MutationKind) String() string {
	switch k {
	case MutationSeed:
		return "seed"
	case MutationDelete:
		return "delete"
	case MutationUpsert:
		return "upsert"
	default:
		return "unknown"
	}
}

// Mutation is a change to the materialized product collection. Use the
// Seed, Delete and Upsert constructors; only the fields matching Kind are set.
type Mutation struct {
	Kind     MutationKind
	Products []Product
	ID       int
	Product  Product
}

// Seed builds a bulk append mutation.
func Seed(products []Product) Mutation {
	return Mutation{Kind: MutationSeed, Products: products}
}

// Delete builds a delete-by-id mutation.
func Delete(id int) Mutation {
	return Mutation{Kind: MutationDelete, ID: id}
}

// Upsert builds an add-or-replace mutation.
func Upsert(p Product) Mutation {
	return Mutation{Kind: MutationUpsert, ID: p.ID, Product: p}
}
