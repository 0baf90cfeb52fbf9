// Package client_return provides client returns and the credit notes issued for them.
package client_return

import (
	"time"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/numerator"
	"backoffice/internal/core/types"
)

// Status of a return.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Condition of a returned unit.
type Condition string

const (
	ConditionSellable Condition = "sellable"
	ConditionDamaged  Condition = "damaged"
)

// ClientReturn is a return header. TotalAmount is fixed at creation.
type ClientReturn struct {
	entity.Base

	ClientID     *id.ID      `db:"client_id" json:"clientId,omitempty"`
	CustomerName string      `db:"customer_name" json:"customerName"`
	OrderID      *id.ID      `db:"order_id" json:"orderId,omitempty"`
	Reason       string      `db:"reason" json:"reason"`
	Status       Status      `db:"status" json:"status"`
	TotalAmount  types.Money `db:"total_amount" json:"totalAmount"`
	CreditNoteID *id.ID      `db:"credit_note_id" json:"creditNoteId,omitempty"`
	ResolvedAt   *time.Time  `db:"resolved_at" json:"resolvedAt,omitempty"`
	ResolvedBy   *string     `db:"resolved_by" json:"resolvedBy,omitempty"`

	Items []Item `db:"-" json:"items,omitempty"`
}

// Item is one returned line.
type Item struct {
	ID        id.ID       `db:"id" json:"id"`
	ReturnID  id.ID       `db:"return_id" json:"returnId"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	Quantity  int64       `db:"quantity" json:"quantity"`
	Condition Condition   `db:"condition" json:"condition"`
	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
}

// Subtotal returns quantity x unit price.
func (i Item) Subtotal() types.Money {
	return types.LineAmount(i.Quantity, i.UnitPrice)
}

// CreditNoteStatus of a credit note.
type CreditNoteStatus string

const CreditNoteIssued CreditNoteStatus = "issued"

// CreditNote compensates an approved return. Amount equals the return total.
type CreditNote struct {
	entity.Base

	Year     int    `db:"year" json:"year"`
	Sequence int64  `db:"sequence" json:"sequence"`
	Number   string `db:"number" json:"number"`

	ClientID    *id.ID `db:"client_id" json:"clientId,omitempty"`
	ClientName  string `db:"client_name" json:"clientName"`
	ClientTaxID string `db:"client_tax_id" json:"clientTaxId"`

	ReturnID id.ID            `db:"return_id" json:"returnId"`
	Amount   types.Money      `db:"amount" json:"amount"`
	Status   CreditNoteStatus `db:"status" json:"status"`
}

// NewCreditNote numbers a credit note for year.
func NewCreditNote(year int, sequence int64) *CreditNote {
	return &CreditNote{
		Base:     entity.NewBase(),
		Year:     year,
		Sequence: sequence,
		Number:   numerator.FormatCreditNoteNumber(year, sequence),
		Status:   CreditNoteIssued,
	}
}

// CreateInput is the request to register a return.
type CreateInput struct {
	ClientID     *id.ID
	CustomerName string
	OrderID      *id.ID
	Reason       string
	Items        []ItemInput
}

// ItemInput is one requested return line.
type ItemInput struct {
	ProductID id.ID
	Quantity  int64
	Condition Condition
	UnitPrice types.Money
}

// ApprovalResult summarizes an approval.
type ApprovalResult struct {
	ReturnID         id.ID       `json:"returnId"`
	CreditNoteID     id.ID       `json:"creditNoteId"`
	CreditNoteNumber string      `json:"creditNoteNumber"`
	Amount           types.Money `json:"amount"`
	RestockedQty     int64       `json:"restockedQty"`
	DiscardedQty     int64       `json:"discardedQty"`
}
