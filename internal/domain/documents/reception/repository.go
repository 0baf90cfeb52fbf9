package reception

import (
	"context"

	"backoffice/internal/core/id"
)

type Repository interface {
	Create(ctx context.Context, r *Reception) error
	CreateItems(ctx context.Context, items []Item) error

	// GetByID returns RECEPTION_NOT_FOUND when missing.
	GetByID(ctx context.Context, id id.ID) (*Reception, error)
	GetForUpdate(ctx context.Context, id id.ID) (*Reception, error)
	GetItems(ctx context.Context, receptionID id.ID) ([]Item, error)
	Update(ctx context.Context, r *Reception) error
}
