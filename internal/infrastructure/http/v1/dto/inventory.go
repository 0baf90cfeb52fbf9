package dto

import (
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/registers/inventory"
)

// RestockRequest is a manual stock increase, e.g. after a count.
type RestockRequest struct {
	Quantity int64       `json:"quantity" binding:"required"`
	Location string      `json:"location"`
	UnitCost types.Money `json:"unitCost"`
	Reason   string      `json:"reason"`
}

func (r *RestockRequest) ToInput(productID id.ID) inventory.RestockInput {
	return inventory.RestockInput{
		ProductID: productID,
		Quantity:  r.Quantity,
		Location:  r.Location,
		Type:      inventory.MovementManual,
		Ref:       inventory.Reference{Type: inventory.RefManual, ID: id.New()},
		UnitCost:  r.UnitCost,
		Reason:    r.Reason,
	}
}
