package dto

import (
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/documents/invoice"
	"backoffice/internal/domain/documents/order"
)

// --- Request DTOs ---

type CreateOrderRequest struct {
	ClientID      *id.ID             `json:"clientId,omitempty"`
	CustomerName  string             `json:"customerName"`
	PaymentMethod string             `json:"paymentMethod,omitempty"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`

	// Total is accepted for compatibility and never trusted.
	Total *types.Money `json:"total,omitempty"`
}

type OrderItemRequest struct {
	ProductID id.ID `json:"productId" binding:"required"`
	Quantity  int64 `json:"quantity"`
}

func (r *CreateOrderRequest) ToInput() order.CreateInput {
	in := order.CreateInput{
		ClientID:      r.ClientID,
		CustomerName:  r.CustomerName,
		PaymentMethod: r.PaymentMethod,
		DeclaredTotal: r.Total,
		Items:         make([]order.ItemInput, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, order.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return in
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

type DispatchRequest struct {
	Method         string `json:"shippingMethod" binding:"required"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Address        string `json:"address,omitempty"`
}

func (r *DispatchRequest) ToInput() order.DispatchInput {
	return order.DispatchInput{
		Method:         r.Method,
		Carrier:        r.Carrier,
		TrackingNumber: r.TrackingNumber,
		Address:        r.Address,
	}
}

type DeliverRequest struct {
	RecipientName     string `json:"recipientName,omitempty"`
	RecipientDocument string `json:"recipientDocument,omitempty"`
}

type PickRequest struct {
	PickedQuantity int64 `json:"pickedQuantity"`
}

// InvoiceOrderRequest issues the invoice of an order.
type InvoiceOrderRequest struct {
	InvoiceType string           `json:"invoiceType,omitempty"`
	PointOfSale int              `json:"pointOfSale,omitempty"`
	Payments    []PaymentRequest `json:"payments,omitempty"`
	Deferred    bool             `json:"deferred,omitempty"`
}

type PaymentRequest struct {
	Method string      `json:"method"`
	Amount types.Money `json:"amount"`
}

func (r *InvoiceOrderRequest) ToOptions() invoice.Options {
	return invoice.Options{
		InvoiceType: r.InvoiceType,
		PointOfSale: r.PointOfSale,
		Payments:    toPayments(r.Payments),
		Deferred:    r.Deferred,
	}
}

func toPayments(in []PaymentRequest) []invoice.Payment {
	if len(in) == 0 {
		return nil
	}
	out := make([]invoice.Payment, 0, len(in))
	for _, p := range in {
		out = append(out, invoice.Payment{Method: p.Method, Amount: p.Amount})
	}
	return out
}
