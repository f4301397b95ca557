package catalog

import "github.com/fairyhunter13/product-catalog-state/internal/model"

// FakeProduct is the record used when a product is added or edited without
// a payload.
func FakeProduct() model.Product {
	return model.Product{
		ID:              42,
		ProductName:     "Another One",
		ProductCode:     "TBX-0042",
		Description:     "Our new product",
		Price:           8.9,
		CategoryID:      model.CategoryRef(3),
		Category:        "Toolbox",
		QuantityInStock: 30,
	}
}

// Commands return false once the state is closed and the command was
// dropped.

// ChangeSelection moves the selection cursor. An id with no matching
// product selects nothing.
func (s *State) ChangeSelection(id int) bool {
	return s.loop.Post(func() { s.selection.Next(id) })
}

// SetCategoryFilter narrows the filtered view. AllCategories clears it.
func (s *State) SetCategoryFilter(categoryID int) bool {
	return s.loop.Post(func() { s.filter.Next(categoryID) })
}

// AddProduct inserts p, or FakeProduct when p is nil. A product whose id is
// already present replaces it.
func (s *State) AddProduct(p *model.Product) bool {
	np := FakeProduct()
	if p != nil {
		np = *p
	}
	return s.loop.Post(func() { s.added.Next(np) })
}

// DeleteProduct removes the product with the given id. Unknown ids are
// ignored.
func (s *State) DeleteProduct(id int) bool {
	return s.loop.Post(func() { s.deleted.Next(id) })
}

// EditProduct replaces the product with the given id by FakeProduct carrying
// that id, or appends it when the id is unknown.
func (s *State) EditProduct(id int) bool {
	p := FakeProduct()
	p.ID = id
	return s.loop.Post(func() { s.edited.Next(p) })
}
