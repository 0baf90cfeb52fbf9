package client

import (
	"context"

	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
)

// Repository reads clients and moves their account balance.
type Repository interface {
	GetByID(ctx context.Context, id id.ID) (*Client, error)

	// GetForUpdate locks the client row until the transaction ends.
	GetForUpdate(ctx context.Context, id id.ID) (*Client, error)

	// AdjustBalance adds delta (which may be negative) to the balance.
	AdjustBalance(ctx context.Context, id id.ID, delta types.Money) error
}
