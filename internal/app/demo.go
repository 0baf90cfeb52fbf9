package app

import (
	"context"
	"fmt"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/tx"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/catalogs/client"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/settings"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/internal/infrastructure/storage/memory"
)

// Catalog receives demo reference data.
type Catalog interface {
	AddProduct(ctx context.Context, p *product.Product) error
	AddClient(ctx context.Context, c *client.Client) error
	SetSetting(ctx context.Context, key, value string) error
}

type demoProduct struct {
	sku, name   string
	sale, cost  string
	stock       int64
	secondStock int64
}

var demoProducts = []demoProduct{
	{"TSH-001", "Cotton T-shirt", "19.90", "8.00", 40, 10},
	{"JNS-002", "Denim jeans", "59.00", "27.50", 15, 5},
	{"CAP-003", "Baseball cap", "14.50", "5.20", 25, 0},
	{"SCK-004", "Socks (3 pack)", "9.99", "3.10", 60, 20},
}

// SeedDemo loads a small catalog, two clients and opening stock at the
// default location and at "backroom".
func SeedDemo(ctx context.Context, cat Catalog, ledger *inventory.Service, txm tx.Manager) error {
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := cat.SetSetting(ctx, settings.KeyTaxRate, "21"); err != nil {
			return fmt.Errorf("seed tax rate: %w", err)
		}
		for _, name := range []string{"Walk-in customer", "Acme Retail SA"} {
			c := &client.Client{Base: entity.NewBase(), Name: name, Balance: types.Zero()}
			if name == "Acme Retail SA" {
				c.TaxID = "30-71234567-8"
				c.Address = "Av. Corrientes 1234"
			}
			if err := cat.AddClient(ctx, c); err != nil {
				return fmt.Errorf("seed client %s: %w", name, err)
			}
		}
		for _, d := range demoProducts {
			sale := types.MustMoney(d.sale)
			p := &product.Product{
				Base:      entity.NewBase(),
				SKU:       d.sku,
				Name:      d.name,
				SalePrice: &sale,
				CostPrice: types.MustMoney(d.cost),
			}
			if err := cat.AddProduct(ctx, p); err != nil {
				return fmt.Errorf("seed product %s: %w", d.sku, err)
			}
			for loc, qty := range map[string]int64{ledger.DefaultLocation(): d.stock, "backroom": d.secondStock} {
				if qty == 0 {
					continue
				}
				if _, err := ledger.Restock(ctx, inventory.RestockInput{
					ProductID: p.ID,
					Location:  loc,
					Quantity:  qty,
					Type:      inventory.MovementManual,
					Ref:       inventory.Reference{Type: inventory.RefManual, ID: p.ID},
					UnitCost:  p.CostPrice,
					Reason:    "opening stock",
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// MemoryCatalog writes demo data into a memory store.
type MemoryCatalog struct {
	Store *memory.Store
}

func (c MemoryCatalog) AddProduct(ctx context.Context, p *product.Product) error {
	c.Store.Products().Put(ctx, *p)
	return nil
}

func (c MemoryCatalog) AddClient(ctx context.Context, cl *client.Client) error {
	c.Store.Clients().Put(ctx, *cl)
	return nil
}

func (c MemoryCatalog) SetSetting(ctx context.Context, key, value string) error {
	c.Store.Settings().Set(ctx, key, value)
	return nil
}
