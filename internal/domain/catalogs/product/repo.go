package product

import (
	"context"

	"backoffice/internal/core/id"
)

// Repository reads products.
type Repository interface {
	// GetByID returns a product that is not soft-deleted.
	GetByID(ctx context.Context, id id.ID) (*Product, error)

	// GetByIDs returns the live products among ids, keyed by id. Missing ids are absent.
	GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*Product, error)
}
