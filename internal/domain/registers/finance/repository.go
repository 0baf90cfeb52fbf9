package finance

import (
	"context"

	"backoffice/internal/core/id"
)

// Repository persists transactions.
type Repository interface {
	Create(ctx context.Context, txs []Transaction) error

	// ByInvoice returns the transactions of an invoice, oldest first.
	ByInvoice(ctx context.Context, invoiceID id.ID) ([]Transaction, error)

	// ByReturn returns the transactions of a client return, oldest first.
	ByReturn(ctx context.Context, returnID id.ID) ([]Transaction, error)
}
