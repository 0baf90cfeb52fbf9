package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/internal/infrastructure/storage/memory"
)

func newLedger(t *testing.T) (*memory.Store, *inventory.Service) {
	t.Helper()
	store := memory.NewStore()
	return store, inventory.NewService(store.Inventory(), store, "main")
}

func restock(t *testing.T, svc *inventory.Service, productID id.ID, location string, qty int64) {
	t.Helper()
	_, err := svc.Restock(context.Background(), inventory.RestockInput{
		ProductID: productID,
		Quantity:  qty,
		Location:  location,
		Type:      inventory.MovementManual,
		Ref:       inventory.Reference{Type: inventory.RefManual, ID: id.New()},
		UnitCost:  types.Zero(),
	})
	require.NoError(t, err)
}

func TestAllocate_LargestBucketFirst(t *testing.T) {
	ctx := context.Background()
	store, svc := newLedger(t)
	p := id.New()
	restock(t, svc, p, "a", 2)
	restock(t, svc, p, "b", 6)
	restock(t, svc, p, "c", 3)

	orderID := id.New()
	plan, err := svc.Allocate(ctx, p, 8, inventory.Reference{Type: inventory.RefOrder, ID: orderID})
	require.NoError(t, err)
	require.Len(t, plan, 2)
	assert.Equal(t, "b", plan[0].Location)
	assert.Equal(t, int64(6), plan[0].Quantity)
	assert.Equal(t, "c", plan[1].Location)
	assert.Equal(t, int64(2), plan[1].Quantity)

	av, err := svc.Availability(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, int64(3), av.Total)

	moves, err := store.Inventory().MovementsByReference(ctx, inventory.Reference{Type: inventory.RefOrder, ID: orderID})
	require.NoError(t, err)
	require.Len(t, moves, 2)
	for _, m := range moves {
		assert.Equal(t, inventory.MovementSale, m.Type)
		assert.NotNil(t, m.FromLocation)
		assert.Equal(t, "system", m.PerformedBy)
	}
}

func TestAllocate_Failures(t *testing.T) {
	ctx := context.Background()
	store, svc := newLedger(t)
	p := id.New()
	restock(t, svc, p, "a", 2)
	before := len(store.Inventory().Movements(ctx))

	_, err := svc.Allocate(ctx, p, 3, inventory.Reference{Type: inventory.RefOrder, ID: id.New()})
	assert.True(t, apperror.HasCode(err, apperror.CodeInsufficientStock))

	_, err = svc.Allocate(ctx, p, 0, inventory.Reference{Type: inventory.RefOrder, ID: id.New()})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))

	assert.Equal(t, int64(2), store.Inventory().StockAt(ctx, p, "a"))
	assert.Len(t, store.Inventory().Movements(ctx), before)
}

func TestRestock_RejectsDecreasingTypes(t *testing.T) {
	_, svc := newLedger(t)
	_, err := svc.Restock(context.Background(), inventory.RestockInput{
		ProductID: id.New(),
		Quantity:  1,
		Type:      inventory.MovementSale,
	})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
}

func TestReverseAllocationsFor_ReplaysLogOnce(t *testing.T) {
	ctx := context.Background()
	store, svc := newLedger(t)
	p := id.New()
	restock(t, svc, p, "a", 4)
	restock(t, svc, p, "b", 4)

	orderID := id.New()
	_, err := svc.Allocate(ctx, p, 6, inventory.Reference{Type: inventory.RefOrder, ID: orderID})
	require.NoError(t, err)

	restored, err := svc.ReverseAllocationsFor(ctx, orderID, nil)
	require.NoError(t, err)
	assert.Len(t, restored, 2)
	assert.Equal(t, int64(4), store.Inventory().StockAt(ctx, p, "a"))
	assert.Equal(t, int64(4), store.Inventory().StockAt(ctx, p, "b"))

	again, err := svc.ReverseAllocationsFor(ctx, orderID, nil)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, int64(4), store.Inventory().StockAt(ctx, p, "a"))
}

func TestReverseAllocationsFor_FallsBackToOrderLines(t *testing.T) {
	ctx := context.Background()
	store, svc := newLedger(t)
	p := id.New()
	orderID := id.New()

	restored, err := svc.ReverseAllocationsFor(ctx, orderID, []inventory.FallbackLine{{ProductID: p, Quantity: 5}})
	require.NoError(t, err)
	require.Len(t, restored, 1)
	assert.Equal(t, "main", restored[0].Location)
	assert.Equal(t, int64(5), store.Inventory().StockAt(ctx, p, "main"))

	_, err = svc.ReverseAllocationsFor(ctx, orderID, []inventory.FallbackLine{{ProductID: p, Quantity: 5}})
	require.NoError(t, err)
	assert.Equal(t, int64(5), store.Inventory().StockAt(ctx, p, "main"))
}

func TestRecordDamage_LeavesStockAlone(t *testing.T) {
	ctx := context.Background()
	store, svc := newLedger(t)
	p := id.New()
	restock(t, svc, p, "main", 1)

	require.NoError(t, svc.RecordDamage(ctx, p, 2, inventory.Reference{Type: inventory.RefClientReturn, ID: id.New()}, "broken"))
	assert.Equal(t, int64(1), store.Inventory().StockAt(ctx, p, "main"))
}
