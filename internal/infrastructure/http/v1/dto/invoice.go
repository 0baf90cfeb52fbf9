package dto

import (
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/documents/invoice"
)

type CreateInvoiceRequest struct {
	InvoiceOrderRequest

	ClientID      *id.ID               `json:"clientId,omitempty"`
	ClientName    string               `json:"clientName,omitempty"`
	ClientTaxID   string               `json:"clientTaxId,omitempty"`
	ClientAddress string               `json:"clientAddress,omitempty"`
	OrderID       *id.ID               `json:"orderId,omitempty"`
	PaymentMethod string               `json:"paymentMethod,omitempty"`
	Lines         []InvoiceLineRequest `json:"items" binding:"required,min=1,dive"`
}

type InvoiceLineRequest struct {
	ProductID       *id.ID      `json:"productId,omitempty"`
	SKU             string      `json:"sku,omitempty"`
	Description     string      `json:"description,omitempty"`
	Quantity        int64       `json:"quantity"`
	UnitPrice       types.Money `json:"unitPrice"`
	DiscountPercent types.Money `json:"discountPercent"`
}

func (r *CreateInvoiceRequest) ToInput() invoice.ManualInput {
	in := invoice.ManualInput{
		Options:       r.ToOptions(),
		ClientID:      r.ClientID,
		ClientName:    r.ClientName,
		ClientTaxID:   r.ClientTaxID,
		ClientAddress: r.ClientAddress,
		OrderID:       r.OrderID,
		Lines:         make([]invoice.ManualLine, 0, len(r.Lines)),
	}
	in.FallbackMethod = r.PaymentMethod
	for _, l := range r.Lines {
		in.Lines = append(in.Lines, invoice.ManualLine{
			ProductID:       l.ProductID,
			SKU:             l.SKU,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
		})
	}
	return in
}

// InvoiceResponse adds the formatted number to the invoice.
type InvoiceResponse struct {
	*invoice.Invoice
	DisplayNumber string `json:"displayNumber"`
}

func FromInvoice(inv *invoice.Invoice) InvoiceResponse {
	return InvoiceResponse{Invoice: inv, DisplayNumber: inv.DisplayNumber()}
}
