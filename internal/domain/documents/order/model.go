// Package order provides the sales order and its lifecycle.
package order

import (
	"time"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
)

// PaymentStatus tracks how much of the order's invoice has been paid.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// ShippingMethod values with special handling.
const (
	ShippingPickup = "pickup"
)

// Shipping holds dispatch and delivery metadata.
type Shipping struct {
	Method            string     `db:"shipping_method" json:"method,omitempty"`
	Carrier           string     `db:"shipping_carrier" json:"carrier,omitempty"`
	TrackingNumber    string     `db:"tracking_number" json:"trackingNumber,omitempty"`
	Address           string     `db:"shipping_address" json:"address,omitempty"`
	RecipientName     string     `db:"recipient_name" json:"recipientName,omitempty"`
	RecipientDocument string     `db:"recipient_document" json:"recipientDocument,omitempty"`
	DispatchedAt      *time.Time `db:"dispatched_at" json:"dispatchedAt,omitempty"`
	DeliveredAt       *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`
}

// Order is a sales order. TotalAmount is fixed at creation.
type Order struct {
	entity.Base

	ClientID      *id.ID        `db:"client_id" json:"clientId,omitempty"`
	CustomerName  string        `db:"customer_name" json:"customerName"`
	TotalAmount   types.Money   `db:"total_amount" json:"totalAmount"`
	Status        Status        `db:"status" json:"status"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`
	PaymentMethod string        `db:"payment_method" json:"paymentMethod"`
	InvoiceID     *id.ID        `db:"invoice_id" json:"invoiceId,omitempty"`

	Shipping

	Items []Item `db:"-" json:"items,omitempty"`
}

// Item is an order line. UnitPrice is the sale price at order time.
type Item struct {
	ID             id.ID       `db:"id" json:"id"`
	OrderID        id.ID       `db:"order_id" json:"orderId"`
	LineNo         int         `db:"line_no" json:"lineNo"`
	ProductID      id.ID       `db:"product_id" json:"productId"`
	Quantity       int64       `db:"quantity" json:"quantity"`
	UnitPrice      types.Money `db:"unit_price" json:"unitPrice"`
	PickedQuantity int64       `db:"picked_quantity" json:"pickedQuantity"`
}

// Subtotal returns quantity x unit price.
func (i Item) Subtotal() types.Money {
	return types.LineAmount(i.Quantity, i.UnitPrice)
}

// FulfilledQuantity is what gets invoiced: the picked quantity once picking started.
func (i Item) FulfilledQuantity() int64 {
	if i.PickedQuantity > 0 {
		return i.PickedQuantity
	}
	return i.Quantity
}

// CreateInput is the request to place an order.
type CreateInput struct {
	ClientID      *id.ID
	CustomerName  string
	PaymentMethod string
	Items         []ItemInput

	// DeclaredTotal is what the caller believes the total is. It is never stored.
	DeclaredTotal *types.Money
}

// ItemInput is one requested line.
type ItemInput struct {
	ProductID id.ID
	Quantity  int64
}

// DispatchInput carries shipping metadata.
type DispatchInput struct {
	Method         string
	Carrier        string
	TrackingNumber string
	Address        string
}

// DeliveryInput carries recipient metadata.
type DeliveryInput struct {
	RecipientName     string
	RecipientDocument string
}
