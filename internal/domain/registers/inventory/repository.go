package inventory

import (
	"context"

	"backoffice/internal/core/id"
)

// Repository persists inventory records and movements.
// Every method runs on the transaction carried by ctx.
type Repository interface {
	// LockStockedRecords locks every record of the product with quantity > 0
	// and returns them ordered by quantity DESC, location ASC.
	LockStockedRecords(ctx context.Context, productID id.ID) ([]Record, error)

	// UpdateQuantities writes the Quantity of each record.
	UpdateQuantities(ctx context.Context, records []Record) error

	// AddQuantity increments the (product, location) record, creating it when missing.
	AddQuantity(ctx context.Context, productID id.ID, location string, quantity int64) (Record, error)

	// AppendMovements inserts ledger entries.
	AppendMovements(ctx context.Context, movements []Movement) error

	// MovementsByReference returns the movements caused by one document, oldest first.
	MovementsByReference(ctx context.Context, ref Reference) ([]Movement, error)

	// RecordsByProduct returns every record of the product, including empty ones.
	RecordsByProduct(ctx context.Context, productID id.ID) ([]Record, error)
}
