// Package product provides the Product catalog as seen by the sales engine.
// Product maintenance itself is reference-data CRUD handled elsewhere.
package product

import (
	"backoffice/internal/core/entity"
	"backoffice/internal/core/types"
)

// Product is a sellable item.
type Product struct {
	entity.Base

	SKU  string `db:"sku" json:"sku"`
	Name string `db:"name" json:"name"`

	// SalePrice is nil until the product is priced; unpriced products cannot be ordered
	SalePrice *types.Money `db:"sale_price" json:"salePrice"`

	CostPrice types.Money `db:"cost_price" json:"costPrice"`
}

// HasPrice reports whether the product can be sold.
func (p *Product) HasPrice() bool {
	return p.SalePrice != nil && !p.SalePrice.IsNegative()
}
