package order_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/documents/order"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/internal/infrastructure/storage/memory"
)

type fixture struct {
	store *memory.Store
	audit *memory.AuditLog
	svc   *order.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	log := &memory.AuditLog{}
	ledger := inventory.NewService(store.Inventory(), store, "main")
	return &fixture{
		store: store,
		audit: log,
		svc:   order.NewService(store.Orders(), store.Products(), ledger, store, log),
	}
}

func (f *fixture) product(price string) id.ID {
	p := product.Product{Base: entity.NewBase(), SKU: "SKU", Name: "Widget"}
	if price != "" {
		m := types.MustMoney(price)
		p.SalePrice = &m
	}
	f.store.Products().Put(context.Background(), p)
	return p.ID
}

func (f *fixture) stock(t *testing.T, productID id.ID, location string, qty int64) {
	t.Helper()
	_, err := f.store.Inventory().AddQuantity(context.Background(), productID, location, qty)
	require.NoError(t, err)
}

func (f *fixture) at(productID id.ID, location string) int64 {
	return f.store.Inventory().StockAt(context.Background(), productID, location)
}

func TestCreate_TotalFromCatalogAndStockDeducted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p1 := f.product("10.50")
	p2 := f.product("3.00")
	f.stock(t, p1, "main", 10)
	f.stock(t, p2, "main", 4)

	declared := types.MustMoney("1.00")
	o, err := f.svc.Create(ctx, order.CreateInput{
		CustomerName:  "Walk-in",
		DeclaredTotal: &declared,
		Items: []order.ItemInput{
			{ProductID: p1, Quantity: 2},
			{ProductID: p2, Quantity: 3},
		},
	})
	require.NoError(t, err)

	assert.True(t, types.MustMoney("30.00").Equal(o.TotalAmount), o.TotalAmount.String())
	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, order.PaymentPending, o.PaymentStatus)
	assert.Equal(t, order.DefaultPaymentMethod, o.PaymentMethod)
	require.Len(t, o.Items, 2)

	assert.Equal(t, int64(8), f.at(p1, "main"))
	assert.Equal(t, int64(1), f.at(p2, "main"))

	stored, err := f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
	assert.True(t, o.TotalAmount.Equal(stored.TotalAmount))
	assert.NotEmpty(t, f.audit.Entries())
}

func TestCreate_InsufficientStockLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p1 := f.product("1.00")
	p2 := f.product("1.00")
	f.stock(t, p1, "main", 5)
	f.stock(t, p2, "main", 2)
	f.stock(t, p2, "back", 1)

	_, err := f.svc.Create(ctx, order.CreateInput{
		CustomerName: "Walk-in",
		Items: []order.ItemInput{
			{ProductID: p1, Quantity: 5},
			{ProductID: p2, Quantity: 4},
		},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(4), appErr.Details["requested"])
	assert.Equal(t, int64(3), appErr.Details["available"])

	assert.Equal(t, int64(5), f.at(p1, "main"))
	assert.Equal(t, int64(2), f.at(p2, "main"))
	assert.Equal(t, int64(1), f.at(p2, "back"))
	assert.Zero(t, f.store.Orders().Count(ctx))
	assert.Empty(t, f.store.Inventory().Movements(ctx))
	assert.Empty(t, f.audit.Entries())
}

func TestCreate_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	priced := f.product("2.00")
	unpriced := f.product("")
	f.stock(t, priced, "main", 10)
	f.stock(t, unpriced, "main", 10)

	_, err := f.svc.Create(ctx, order.CreateInput{Items: []order.ItemInput{{ProductID: priced, Quantity: 0}}})
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidQuantity))

	_, err = f.svc.Create(ctx, order.CreateInput{Items: []order.ItemInput{{ProductID: unpriced, Quantity: 1}}})
	assert.True(t, apperror.HasCode(err, apperror.CodeProductPriceMissing))

	_, err = f.svc.Create(ctx, order.CreateInput{Items: []order.ItemInput{{ProductID: id.New(), Quantity: 1}}})
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.Create(ctx, order.CreateInput{})
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))

	assert.Equal(t, int64(10), f.at(priced, "main"))
}

func TestCancelPackedOrder_RestoresEveryBucket(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product("5.00")
	f.stock(t, p, "front", 5)
	f.stock(t, p, "back", 4)
	f.stock(t, p, "annex", 1)

	o, err := f.svc.Create(ctx, order.CreateInput{Items: []order.ItemInput{{ProductID: p, Quantity: 8}}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.at(p, "front"))
	assert.Equal(t, int64(1), f.at(p, "back"))
	assert.Equal(t, int64(1), f.at(p, "annex"))

	for _, s := range []string{"confirmed", "packed", "cancelled"} {
		o, err = f.svc.Transition(ctx, o.ID, s)
		require.NoError(t, err, s)
	}
	assert.Equal(t, order.StatusCancelled, o.Status)

	assert.Equal(t, int64(5), f.at(p, "front"))
	assert.Equal(t, int64(4), f.at(p, "back"))
	assert.Equal(t, int64(1), f.at(p, "annex"))

	// Same-state transition is a no-op and restocks nothing twice.
	_, err = f.svc.Transition(ctx, o.ID, "canceled")
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.at(p, "front"))
	assert.Equal(t, int64(4), f.at(p, "back"))

	var restocks int64
	for _, m := range f.store.Inventory().Movements(ctx) {
		if m.Type == inventory.MovementRestock {
			restocks += m.Quantity
			assert.Equal(t, o.ID, m.ReferenceID)
		}
	}
	assert.Equal(t, int64(8), restocks)
}

func TestTransition_DisallowedDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.product("1.00")
	f.stock(t, p, "main", 3)

	o, err := f.svc.Create(ctx, order.CreateInput{Items: []order.ItemInput{{ProductID: p, Quantity: 1}}})
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, o.ID, "packed")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOrderTransition))

	_, err = f.svc.Transition(ctx, o.ID, "cancelled")
	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidOrderTransition))

	_, err = f.svc.Transition(ctx, o.ID, "teleported")
	require.True(t, apperror.HasCode(err, apperror.CodeInvalidOrderTransition))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "pending", appErr.Details["from"])
	assert.Equal(t, "teleported", appErr.Details["to"])

	got, err := f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, got.Status)
	assert.Equal(t, int64(2), f.at(p, "main"))

	_, err = f.svc.Transition(ctx, id.New(), "picking")
	assert.True(t, apperror.HasCode(err, apperror.CodeOrderNotFound))
}

func packedOrder(t *testing.T, f *fixture, qty int64) *order.Order {
	t.Helper()
	ctx := context.Background()
	p := f.product("2.00")
	f.stock(t, p, "main", qty)
	o, err := f.svc.Create(ctx, order.CreateInput{Items: []order.ItemInput{{ProductID: p, Quantity: qty}}})
	require.NoError(t, err)
	for _, s := range []order.Status{order.StatusPicking, order.StatusPacked} {
		o, err = f.svc.Transition(ctx, o.ID, string(s))
		require.NoError(t, err)
	}
	return o
}

func TestDispatch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	o := packedOrder(t, f, 1)
	o, err := f.svc.Dispatch(ctx, o.ID, order.DispatchInput{Method: "courier", Carrier: "ACME", TrackingNumber: "T-1"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusDispatched, o.Status)
	assert.Equal(t, "T-1", o.Shipping.TrackingNumber)
	require.NotNil(t, o.Shipping.DispatchedAt)

	o, err = f.svc.Deliver(ctx, o.ID, order.DeliveryInput{RecipientName: "Ana", RecipientDocument: "123"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, o.Status)
	assert.Equal(t, "Ana", o.Shipping.RecipientName)
	assert.NotNil(t, o.Shipping.DeliveredAt)

	pickup := packedOrder(t, f, 1)
	pickup, err = f.svc.Dispatch(ctx, pickup.ID, order.DispatchInput{Method: "Pickup"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, pickup.Status)
	assert.NotNil(t, pickup.Shipping.DeliveredAt)
}

func TestTransition_ReturnsItems(t *testing.T) {
	f := newFixture(t)
	o := packedOrder(t, f, 3)

	assert.Equal(t, order.StatusPacked, o.Status)
	require.Len(t, o.Items, 1)
	assert.Equal(t, int64(3), o.Items[0].Quantity)
}

func TestDeliver_RepeatIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := packedOrder(t, f, 1)

	first, err := f.svc.Deliver(ctx, o.ID, order.DeliveryInput{RecipientName: "Ana"})
	require.NoError(t, err)
	require.NotNil(t, first.Shipping.DeliveredAt)
	deliveredAt := *first.Shipping.DeliveredAt

	again, err := f.svc.Deliver(ctx, o.ID, order.DeliveryInput{RecipientName: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, again.Status)
	assert.Equal(t, "Ana", again.Shipping.RecipientName)
	require.NotNil(t, again.Shipping.DeliveredAt)
	assert.True(t, deliveredAt.Equal(*again.Shipping.DeliveredAt))
	assert.Equal(t, first.Version, again.Version)
}

func TestPickItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	o := packedOrder(t, f, 4)
	itemID := o.Items[0].ID

	item, err := f.svc.PickItem(ctx, itemID, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(4), item.PickedQuantity)

	item, err = f.svc.PickItem(ctx, itemID, -1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.PickedQuantity)

	item, err = f.svc.PickItem(ctx, itemID, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), item.PickedQuantity)

	got, err := f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPacked, got.Status)
	assert.Equal(t, int64(3), got.Items[0].PickedQuantity)

	_, err = f.svc.Transition(ctx, o.ID, "cancelled")
	require.NoError(t, err)
	_, err = f.svc.PickItem(ctx, itemID, 1)
	assert.True(t, apperror.HasCode(err, apperror.CodeOrderClosed))
}

func TestAuditFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.audit.Err = errors.New("audit store down")
	p := f.product("1.00")
	f.stock(t, p, "main", 1)

	o, err := f.svc.Create(ctx, order.CreateInput{Items: []order.ItemInput{{ProductID: p, Quantity: 1}}})
	require.NoError(t, err)
	_, err = f.svc.Get(ctx, o.ID)
	require.NoError(t, err)
}
