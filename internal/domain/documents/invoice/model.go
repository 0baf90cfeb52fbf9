// Package invoice provides sales invoices and payment reconciliation.
package invoice

import (
	"time"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/numerator"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/documents/order"
	"backoffice/internal/domain/registers/finance"
)

// Status of an invoice with the tax authority.
type Status string

const (
	StatusIssued     Status = "issued"
	StatusAuthorized Status = "authorized"
)

// Invoice is an issued sales invoice. Client fields are a snapshot taken at issuance.
type Invoice struct {
	entity.Base

	InvoiceType string `db:"invoice_type" json:"invoiceType"`
	PointOfSale int    `db:"point_of_sale" json:"pointOfSale"`
	Number      int64  `db:"invoice_number" json:"invoiceNumber"`

	ClientID      *id.ID `db:"client_id" json:"clientId,omitempty"`
	ClientName    string `db:"client_name" json:"clientName"`
	ClientTaxID   string `db:"client_tax_id" json:"clientTaxId"`
	ClientAddress string `db:"client_address" json:"clientAddress"`

	OrderID *id.ID `db:"order_id" json:"orderId,omitempty"`

	TaxRate     types.Money `db:"tax_rate" json:"taxRate"`
	NetAmount   types.Money `db:"net_amount" json:"netAmount"`
	VatAmount   types.Money `db:"vat_amount" json:"vatAmount"`
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	PaidAmount  types.Money `db:"paid_amount" json:"paidAmount"`

	Status        Status              `db:"status" json:"status"`
	PaymentMethod string              `db:"payment_method" json:"paymentMethod"`
	PaymentStatus order.PaymentStatus `db:"payment_status" json:"paymentStatus"`

	AuthorizationCode      *string    `db:"authorization_code" json:"authorizationCode,omitempty"`
	AuthorizationExpiresAt *time.Time `db:"authorization_expires_at" json:"authorizationExpiresAt,omitempty"`
	AuthorizedAt           *time.Time `db:"authorized_at" json:"authorizedAt,omitempty"`

	Items    []Item                `db:"-" json:"items,omitempty"`
	Payments []finance.Transaction `db:"-" json:"payments,omitempty"`
}

// DisplayNumber renders the legal number, e.g. B-0001-00000042.
func (inv *Invoice) DisplayNumber() string {
	return numerator.FormatInvoiceNumber(inv.InvoiceType, inv.PointOfSale, inv.Number)
}

// IsAuthorized reports whether the invoice already carries an authorization code.
func (inv *Invoice) IsAuthorized() bool {
	return inv.Status == StatusAuthorized && inv.AuthorizationCode != nil
}

// Item is an invoice line with a product snapshot.
type Item struct {
	ID              id.ID       `db:"id" json:"id"`
	InvoiceID       id.ID       `db:"invoice_id" json:"invoiceId"`
	LineNo          int         `db:"line_no" json:"lineNo"`
	ProductID       *id.ID      `db:"product_id" json:"productId,omitempty"`
	SKU             string      `db:"sku" json:"sku"`
	Description     string      `db:"description" json:"description"`
	Quantity        int64       `db:"quantity" json:"quantity"`
	UnitPrice       types.Money `db:"unit_price" json:"unitPrice"`
	DiscountPercent types.Money `db:"discount_percent" json:"discountPercent"`
	VatRate         types.Money `db:"vat_rate" json:"vatRate"`
	NetAmount       types.Money `db:"net_amount" json:"netAmount"`
	VatAmount       types.Money `db:"vat_amount" json:"vatAmount"`
	LineTotal       types.Money `db:"line_total" json:"lineTotal"`
}

// Payment is one requested payment split.
type Payment struct {
	Method string      `json:"method"`
	Amount types.Money `json:"amount"`
}

// Options controls numbering and payment of a new invoice.
// Zero values fall back to the service defaults.
type Options struct {
	InvoiceType string
	PointOfSale int
	Payments    []Payment

	// FallbackMethod names the implicit full-amount split used when Payments is empty.
	FallbackMethod string

	// Deferred issues the invoice unpaid when Payments is empty.
	Deferred bool
}

// ManualLine is a caller-priced invoice line.
type ManualLine struct {
	ProductID       *id.ID
	SKU             string
	Description     string
	Quantity        int64
	UnitPrice       types.Money
	DiscountPercent types.Money
}

// ManualInput is a point-of-sale invoice not derived from an order.
type ManualInput struct {
	Options

	ClientID      *id.ID
	ClientName    string
	ClientTaxID   string
	ClientAddress string

	// OrderID optionally links the invoice back to an order.
	OrderID *id.ID

	Lines []ManualLine
}
