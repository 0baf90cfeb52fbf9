package order

import (
	"context"

	"backoffice/internal/core/id"
	"backoffice/internal/domain"
)

// Repository persists orders and their items.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	CreateItems(ctx context.Context, items []Item) error

	// GetByID returns the header without items; ORDER_NOT_FOUND when missing.
	GetByID(ctx context.Context, id id.ID) (*Order, error)

	// GetForUpdate locks the order row until the transaction ends.
	GetForUpdate(ctx context.Context, id id.ID) (*Order, error)

	// Update writes the mutable header fields and bumps the version.
	Update(ctx context.Context, o *Order) error

	GetItems(ctx context.Context, orderID id.ID) ([]Item, error)
	GetItem(ctx context.Context, itemID id.ID) (*Item, error)

	// GetItemForUpdate locks one item. Callers lock the parent order first.
	GetItemForUpdate(ctx context.Context, itemID id.ID) (*Item, error)

	UpdatePickedQuantity(ctx context.Context, itemID id.ID, picked int64) error

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Order], error)
}
