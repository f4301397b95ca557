package backend

import "github.com/fairyhunter13/product-catalog-state/internal/model"

func SeedCategories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Garden"},
		{ID: 3, Name: "Toolbox"},
		{ID: 5, Name: "Gaming"},
	}
}

func SeedSuppliers() []model.Supplier {
	return []model.Supplier{
		{ID: 1, Name: "Acme Gizmo", Cost: 5, MinQuantity: 24},
		{ID: 2, Name: "Acme Gadget", Cost: 25, MinQuantity: 2},
		{ID: 3, Name: "Acme General", Cost: 2, MinQuantity: 24},
		{ID: 4, Name: "Acme Tool Supply", Cost: 1, MinQuantity: 24},
		{ID: 5, Name: "Tool Gizmo", Cost: 4, MinQuantity: 12},
		{ID: 6, Name: "Tool Gadget", Cost: 8, MinQuantity: 6},
		{ID: 7, Name: "Tool General", Cost: 2, MinQuantity: 12},
	}
}

// SeedProducts is the initial catalog. Product 10 links a supplier that
// does not exist, so selecting it exercises the supplier failure path.
func SeedProducts() []model.Product {
	return []model.Product{
		{ID: 1, ProductName: "Leaf Rake", ProductCode: "GDN-0011", Description: "Leaf rake with 48-inch wooden handle",
			Price: 19.95, CategoryID: model.CategoryRef(1), QuantityInStock: 15, SupplierIDs: []int{1, 2}},
		{ID: 2, ProductName: "Garden Cart", ProductCode: "GDN-0023", Description: "15 gallon capacity rolling garden cart",
			Price: 32.99, CategoryID: model.CategoryRef(1), QuantityInStock: 2, SupplierIDs: []int{3, 4}},
		{ID: 5, ProductName: "Hammer", ProductCode: "TBX-0048", Description: "Curved claw steel hammer",
			Price: 8.9, CategoryID: model.CategoryRef(3), QuantityInStock: 8, SupplierIDs: []int{5, 6}},
		{ID: 8, ProductName: "Saw", ProductCode: "TBX-0022", Description: "15-inch steel blade hand saw",
			Price: 11.55, CategoryID: model.CategoryRef(3), QuantityInStock: 6, SupplierIDs: []int{7, 4}},
		{ID: 10, ProductName: "Video Game Controller", ProductCode: "GMG-0042", Description: "Standard two-button video game controller",
			Price: 35.95, CategoryID: model.CategoryRef(5), QuantityInStock: 12, SupplierIDs: []int{9}},
		{ID: 13, ProductName: "Gift Card", ProductCode: "GFT-0001", Description: "Store credit",
			Price: 0, QuantityInStock: 100},
	}
}
