package document_repo

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/documents/order"
	"backoffice/internal/infrastructure/storage/postgres"
)

var (
	orderSchema = postgres.NewSchema[order.Order]("orders",
		postgres.WithSearch("customer_name", "tracking_number"))
	orderItemSchema = postgres.NewSchema[order.Item]("order_items", postgres.WithDefaultOrder("line_no"))
)

// OrderRepo implements order.Repository.
type OrderRepo struct {
	tables documentTables[order.Order, order.Item]
}

func NewOrderRepo(txm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		tables: newDocumentTables(txm, orderSchema, orderItemSchema, "order", "order_id",
			[]postgres.Order[order.Item]{postgres.Asc(orderItemSchema.MustColumn("line_no"))},
			notFoundAs(apperror.NewOrderNotFound)),
	}
}

func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	return r.tables.insertHeader(ctx, o)
}

func (r *OrderRepo) CreateItems(ctx context.Context, items []order.Item) error {
	return r.tables.insertLines(ctx, items)
}

func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*order.Order, error) {
	return r.tables.get(ctx, orderID, false)
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*order.Order, error) {
	return r.tables.get(ctx, orderID, true)
}

func (r *OrderRepo) Update(ctx context.Context, o *order.Order) error {
	return r.tables.save(ctx, o.ID, &o.Version, o)
}

func (r *OrderRepo) GetItems(ctx context.Context, orderID id.ID) ([]order.Item, error) {
	return r.tables.linesOf(ctx, orderID, false)
}

func (r *OrderRepo) GetItem(ctx context.Context, itemID id.ID) (*order.Item, error) {
	return r.tables.lines.Get(ctx, itemID)
}

func (r *OrderRepo) GetItemForUpdate(ctx context.Context, itemID id.ID) (*order.Item, error) {
	return r.tables.lines.GetForUpdate(ctx, itemID)
}

func (r *OrderRepo) UpdatePickedQuantity(ctx context.Context, itemID id.ID, picked int64) error {
	return r.tables.lines.Update(ctx, itemID, postgres.Values[order.Item]{
		orderItemSchema.MustColumn("picked_quantity"): picked,
	})
}

func (r *OrderRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[order.Order], error) {
	return r.tables.header.List(ctx, f)
}

var _ order.Repository = (*OrderRepo)(nil)
