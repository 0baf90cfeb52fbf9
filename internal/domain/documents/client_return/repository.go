package client_return

import (
	"context"

	"backoffice/internal/core/id"
	"backoffice/internal/domain"
)

// Repository persists returns and credit notes.
type Repository interface {
	Create(ctx context.Context, r *ClientReturn) error
	CreateItems(ctx context.Context, items []Item) error

	// GetByID returns RETURN_NOT_FOUND when missing.
	GetByID(ctx context.Context, id id.ID) (*ClientReturn, error)
	GetForUpdate(ctx context.Context, id id.ID) (*ClientReturn, error)

	GetItems(ctx context.Context, returnID id.ID) ([]Item, error)

	// GetItemsForUpdate locks the items of a return. Callers lock the header first.
	GetItemsForUpdate(ctx context.Context, returnID id.ID) ([]Item, error)

	Update(ctx context.Context, r *ClientReturn) error

	CreateCreditNote(ctx context.Context, cn *CreditNote) error
	GetCreditNote(ctx context.Context, id id.ID) (*CreditNote, error)

	// MaxCreditNoteSequence returns the highest sequence issued in year, 0 when none.
	MaxCreditNoteSequence(ctx context.Context, year int) (int64, error)

	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[ClientReturn], error)
}
