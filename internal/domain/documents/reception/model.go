// Package reception provides goods receptions from suppliers.
package reception

import (
	"time"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

// Reception is a supplier delivery. Stock only moves on approval.
type Reception struct {
	entity.Base

	SupplierID   *id.ID      `db:"supplier_id" json:"supplierId,omitempty"`
	SupplierName string      `db:"supplier_name" json:"supplierName"`
	Location     string      `db:"location" json:"location"`
	Notes        string      `db:"notes" json:"notes"`
	Status       Status      `db:"status" json:"status"`
	TotalCost    types.Money `db:"total_cost" json:"totalCost"`
	ApprovedAt   *time.Time  `db:"approved_at" json:"approvedAt,omitempty"`
	ApprovedBy   *string     `db:"approved_by" json:"approvedBy,omitempty"`

	Items []Item `db:"-" json:"items,omitempty"`
}

type Item struct {
	ID          id.ID       `db:"id" json:"id"`
	ReceptionID id.ID       `db:"reception_id" json:"receptionId"`
	ProductID   id.ID       `db:"product_id" json:"productId"`
	Quantity    int64       `db:"quantity" json:"quantity"`
	UnitCost    types.Money `db:"unit_cost" json:"unitCost"`
}

type CreateInput struct {
	SupplierID   *id.ID
	SupplierName string
	Location     string
	Notes        string
	Items        []ItemInput
}

type ItemInput struct {
	ProductID id.ID
	Quantity  int64
	UnitCost  types.Money
}
