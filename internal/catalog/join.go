package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/product-catalog-state/internal/model"
)

// DefaultMarkup is applied to the raw price to get the display price.
var DefaultMarkup = decimal.NewFromFloat(1.5)

// JoinCategories prices every product and resolves its category name. The
// output has one entry per input product, in input order. A category id
// with no matching category leaves the name empty.
func JoinCategories(products []model.Product, categories []model.Category, markup decimal.Decimal) []model.Product {
	names := make(map[int]string, len(categories))
	for _, c := range categories {
		if _, seen := names[c.ID]; !seen {
			names[c.ID] = c.Name
		}
	}
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		joined := p
		joined.OriginalPrice = p.Price
		if !(p.Price > 0) {
			joined.OriginalPrice = 0
		}
		joined.Price = DisplayPrice(p.Price, markup)
		joined.Category = ""
		if p.CategoryID != nil {
			joined.Category = names[*p.CategoryID]
		}
		joined.SearchKey = []string{p.ProductName}
		out = append(out, joined)
	}
	return out
}

// DisplayPrice returns price*markup, or 0 when there is no positive price.
func DisplayPrice(price float64, markup decimal.Decimal) float64 {
	if !(price > 0) {
		return 0
	}
	return decimal.NewFromFloat(price).Mul(markup).InexactFloat64()
}
