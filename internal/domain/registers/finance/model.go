// Package finance provides the money register: one row per payment split
// and per compensating credit.
package finance

import (
	"time"

	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
)

// TransactionType classifies a money movement.
type TransactionType string

const (
	TypeInvoicePayment TransactionType = "invoice_payment"
	TypeCreditNote     TransactionType = "credit_note"
)

// Transaction is an immutable money movement.
type Transaction struct {
	ID          id.ID           `db:"id" json:"id"`
	Type        TransactionType `db:"type" json:"type"`
	Amount      types.Money     `db:"amount" json:"amount"`
	Method      string          `db:"method" json:"method"`
	Description string          `db:"description" json:"description"`
	ClientID    *id.ID          `db:"client_id" json:"clientId,omitempty"`
	SupplierID  *id.ID          `db:"supplier_id" json:"supplierId,omitempty"`
	InvoiceID   *id.ID          `db:"invoice_id" json:"invoiceId,omitempty"`
	OrderID     *id.ID          `db:"order_id" json:"orderId,omitempty"`
	ReturnID    *id.ID          `db:"return_id" json:"returnId,omitempty"`
	Date        time.Time       `db:"date" json:"date"`
	CreatedBy   string          `db:"created_by" json:"createdBy"`
}
