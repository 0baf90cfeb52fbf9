package dto

import (
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/documents/client_return"
)

type CreateReturnRequest struct {
	ClientID     *id.ID              `json:"clientId,omitempty"`
	CustomerName string              `json:"customerName,omitempty"`
	OrderID      *id.ID              `json:"orderId,omitempty"`
	Reason       string              `json:"reason,omitempty"`
	Items        []ReturnItemRequest `json:"items" binding:"dive"`
}

type ReturnItemRequest struct {
	ProductID id.ID       `json:"productId" binding:"required"`
	Quantity  int64       `json:"quantity"`
	Condition string      `json:"condition,omitempty"`
	UnitPrice types.Money `json:"unitPrice"`
}

func (r *CreateReturnRequest) ToInput() client_return.CreateInput {
	in := client_return.CreateInput{
		ClientID:     r.ClientID,
		CustomerName: r.CustomerName,
		OrderID:      r.OrderID,
		Reason:       r.Reason,
		Items:        make([]client_return.ItemInput, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, client_return.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Condition: client_return.Condition(it.Condition),
			UnitPrice: it.UnitPrice,
		})
	}
	return in
}

type RejectReturnRequest struct {
	Reason string `json:"reason,omitempty"`
}
