// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"

	"backoffice/internal/core/id"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/infrastructure/storage/postgres"
)

var productSchema = postgres.NewSchema[product.Product]("products", postgres.WithSearch("sku", "name"))

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*postgres.BaseRepo[product.Product]
}

func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{BaseRepo: postgres.NewBaseRepo(txm, productSchema, "product")}
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.Get(ctx, productID)
}

func (r *ProductRepo) GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	out := make(map[id.ID]*product.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.Find(ctx, postgres.Query[product.Product]{
		Where: []postgres.Condition[product.Product]{postgres.Eq(productSchema.MustColumn("id"), ids)},
	})
	if err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}

var _ product.Repository = (*ProductRepo)(nil)
