package dto

import (
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/documents/reception"
)

type CreateReceptionRequest struct {
	SupplierID   *id.ID                 `json:"supplierId,omitempty"`
	SupplierName string                 `json:"supplierName,omitempty"`
	Location     string                 `json:"location,omitempty"`
	Notes        string                 `json:"notes,omitempty"`
	Items        []ReceptionItemRequest `json:"items" binding:"dive"`
}

type ReceptionItemRequest struct {
	ProductID id.ID       `json:"productId" binding:"required"`
	Quantity  int64       `json:"quantity"`
	UnitCost  types.Money `json:"unitCost"`
}

func (r *CreateReceptionRequest) ToInput() reception.CreateInput {
	in := reception.CreateInput{
		SupplierID:   r.SupplierID,
		SupplierName: r.SupplierName,
		Location:     r.Location,
		Notes:        r.Notes,
		Items:        make([]reception.ItemInput, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, reception.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
		})
	}
	return in
}
