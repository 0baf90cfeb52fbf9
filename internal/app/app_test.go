package app_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/app"
	"backoffice/internal/config"
	"backoffice/internal/core/entity"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/documents/client_return"
	"backoffice/internal/infrastructure/storage/memory"
	"backoffice/pkg/logger"
)

func business() config.BusinessConfig {
	return config.BusinessConfig{
		DefaultTaxRate:     decimal.NewFromInt(21),
		DefaultLocation:    "main",
		DefaultInvoiceType: "B",
		DefaultPointOfSale: 1,
	}
}

func TestNewServices_RejectsBadRestockRule(t *testing.T) {
	b := app.NewMemoryBackend(memory.NewStore(), logger.NewNop())
	biz := business()
	biz.ReturnRestockRule = `quantity + "x"`

	_, err := app.NewServices(b, biz)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "return restock rule")
}

func TestNewServices_RestockRuleAppliesToReturns(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	b := app.NewMemoryBackend(store, logger.NewNop())
	biz := business()
	biz.ReturnRestockRule = `condition == "sellable" || reason == "wrong size"`

	svc, err := app.NewServices(b, biz)
	require.NoError(t, err)

	p := product.Product{Base: entity.NewBase(), SKU: "TS-1", Name: "T-shirt"}
	store.Products().Put(ctx, p)

	r, err := svc.Returns.Create(ctx, client_return.CreateInput{
		CustomerName: "Walk-in",
		Reason:       "wrong size",
		Items: []client_return.ItemInput{{
			ProductID: p.ID,
			Quantity:  2,
			Condition: client_return.ConditionDamaged,
			UnitPrice: decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)

	res, err := svc.Returns.Approve(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.RestockedQty)
	assert.Equal(t, int64(0), res.DiscardedQty)
	assert.Equal(t, int64(2), store.Inventory().StockAt(ctx, p.ID, "main"))
}

func TestNewServices_DefaultPolicyWithoutRule(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc, err := app.NewServices(app.NewMemoryBackend(store, logger.NewNop()), business())
	require.NoError(t, err)

	p := product.Product{Base: entity.NewBase(), SKU: "TS-2", Name: "Mug"}
	store.Products().Put(ctx, p)

	r, err := svc.Returns.Create(ctx, client_return.CreateInput{
		Reason: "wrong size",
		Items: []client_return.ItemInput{{
			ProductID: p.ID,
			Quantity:  1,
			Condition: client_return.ConditionDamaged,
			UnitPrice: decimal.NewFromInt(5),
		}},
	})
	require.NoError(t, err)

	res, err := svc.Returns.Approve(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DiscardedQty)
	assert.Equal(t, int64(0), store.Inventory().StockAt(ctx, p.ID, "main"))
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc, err := app.NewServices(app.NewMemoryBackend(store, logger.NewNop()), business())
	require.NoError(t, err)

	require.NoError(t, app.SeedDemo(ctx, app.MemoryCatalog{Store: store}, svc.Inventory, store))

	rate, ok, err := store.Settings().Get(ctx, "tax_rate")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "21", rate)

	movements := store.Inventory().Movements(ctx)
	require.Len(t, movements, 7)

	var total int64
	for _, m := range movements {
		total += m.Quantity
		a, err := svc.Inventory.Availability(ctx, m.ProductID)
		require.NoError(t, err)
		assert.Positive(t, a.Total)
	}
	assert.Equal(t, int64(175), total)
}
