// Package model defines domain types used by the catalog state layer.
package model

import "slices"

// Product represents one catalog entry. Price, OriginalPrice, Category and
// SearchKey are filled in by the category join; a freshly fetched product
// carries only its raw Price.
type Product struct {
	ID              int      `json:"id"`
	ProductName     string   `json:"productName"`
	ProductCode     string   `json:"productCode"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	OriginalPrice   float64  `json:"originalPrice"`
	CategoryID      *int     `json:"categoryId,omitempty"`
	Category        string   `json:"category,omitempty"`
	QuantityInStock int      `json:"quantityInStock"`
	SearchKey       []string `json:"searchKey,omitempty"`
	SupplierIDs     []int    `json:"supplierIds,omitempty"`
}

// Equal reports whether two products carry the same data.
func (p Product) Equal(o Product) bool {
	if p.ID != o.ID ||
		p.ProductName != o.ProductName ||
		p.ProductCode != o.ProductCode ||
		p.Description != o.Description ||
		p.Price != o.Price ||
		p.OriginalPrice != o.OriginalPrice ||
		p.Category != o.Category ||
		p.QuantityInStock != o.QuantityInStock {
		return false
	}
	if (p.CategoryID == nil) != (o.CategoryID == nil) {
		return false
	}
	if p.CategoryID != nil && *p.CategoryID != *o.CategoryID {
		return false
	}
	return slices.Equal(p.SearchKey, o.SearchKey) && slices.Equal(p.SupplierIDs, o.SupplierIDs)
}

// InCategory reports whether the product references the given category id.
func (p Product) InCategory(id int) bool {
	return p.CategoryID != nil && *p.CategoryID == id
}

// Category is a product category as served by the backend.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Supplier is fetched individually by id and never mutated locally.
type Supplier struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Cost        float64 `json:"cost"`
	MinQuantity int     `json:"minQuantity"`
}

// CategoryRef returns a pointer suitable for Product.CategoryID.
func CategoryRef(id int) *int { return &id }
