package memory

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/documents/order"
)

// OrderRepo implements order.Repository.
type OrderRepo struct{ s *Store }

func (r *OrderRepo) Create(ctx context.Context, o *order.Order) error {
	return r.s.do(ctx, func(st *state) error {
		if _, exists := st.orders[o.ID]; exists {
			return apperror.NewConflict("order already exists").WithDetail("order_id", o.ID.String())
		}
		row := *o
		row.Items = nil
		st.orders[o.ID] = row
		return nil
	})
}

func (r *OrderRepo) CreateItems(ctx context.Context, items []order.Item) error {
	return r.s.do(ctx, func(st *state) error {
		st.orderItems = append(st.orderItems, items...)
		return nil
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*order.Order, error) {
	var out *order.Order
	err := r.s.do(ctx, func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok || o.DeletionMark {
			return apperror.NewOrderNotFound(orderID.String())
		}
		out = &o
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, orderID id.ID) (*order.Order, error) {
	return r.GetByID(ctx, orderID)
}

func (r *OrderRepo) Update(ctx context.Context, o *order.Order) error {
	return r.s.do(ctx, func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return apperror.NewOrderNotFound(o.ID.String())
		}
		if cur.Version != o.Version {
			return apperror.NewConcurrentModification("order", o.ID.String())
		}
		o.Version++
		row := *o
		row.Items = nil
		st.orders[o.ID] = row
		return nil
	})
}

func (r *OrderRepo) GetItems(ctx context.Context, orderID id.ID) ([]order.Item, error) {
	var out []order.Item
	err := r.s.do(ctx, func(st *state) error {
		for _, it := range st.orderItems {
			if it.OrderID == orderID {
				out = append(out, it)
			}
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetItem(ctx context.Context, itemID id.ID) (*order.Item, error) {
	var out *order.Item
	err := r.s.do(ctx, func(st *state) error {
		for _, it := range st.orderItems {
			if it.ID == itemID {
				out = &it
				return nil
			}
		}
		return apperror.NewNotFound("order_item", itemID.String())
	})
	return out, err
}

func (r *OrderRepo) GetItemForUpdate(ctx context.Context, itemID id.ID) (*order.Item, error) {
	return r.GetItem(ctx, itemID)
}

func (r *OrderRepo) UpdatePickedQuantity(ctx context.Context, itemID id.ID, picked int64) error {
	return r.s.do(ctx, func(st *state) error {
		for i := range st.orderItems {
			if st.orderItems[i].ID == itemID {
				st.orderItems[i].PickedQuantity = picked
				return nil
			}
		}
		return apperror.NewNotFound("order_item", itemID.String())
	})
}

func (r *OrderRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[order.Order], error) {
	var res domain.ListResult[order.Order]
	err := r.s.do(ctx, func(st *state) error {
		res = page(sortedValues(st.orders, orderBase), f, orderBase)
		return nil
	})
	return res, err
}

// Count returns the number of stored orders, deleted ones included.
func (r *OrderRepo) Count(ctx context.Context) int {
	var n int
	_ = r.s.do(ctx, func(st *state) error {
		n = len(st.orders)
		return nil
	})
	return n
}

func orderBase(o *order.Order) *entity.Base { return &o.Base }
