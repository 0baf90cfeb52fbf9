package invoice

import (
	"context"

	"backoffice/internal/core/id"
	"backoffice/internal/domain"
)

// Repository persists invoices and their lines.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	CreateItems(ctx context.Context, items []Item) error

	GetByID(ctx context.Context, id id.ID) (*Invoice, error)
	GetForUpdate(ctx context.Context, id id.ID) (*Invoice, error)
	GetItems(ctx context.Context, invoiceID id.ID) ([]Item, error)

	// Update writes status, payment and authorization fields.
	Update(ctx context.Context, inv *Invoice) error

	// MaxNumber returns the highest number issued for (type, point of sale), 0 when none.
	MaxNumber(ctx context.Context, invoiceType string, pointOfSale int) (int64, error)

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[Invoice], error)
}
