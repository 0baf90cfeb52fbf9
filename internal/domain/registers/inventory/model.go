// Package inventory provides the inventory ledger: per-location stock records
// and the append-only movement log that explains every change to them.
package inventory

import (
	"time"

	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
)

// MovementType classifies a ledger entry.
type MovementType string

const (
	MovementSale      MovementType = "sale"
	MovementRestock   MovementType = "restock"
	MovementReception MovementType = "reception"
	MovementReturn    MovementType = "return"
	MovementDamage    MovementType = "damage"
	MovementManual    MovementType = "manual"
)

// increasesStock reports whether the type is accepted by Restock.
func (t MovementType) increasesStock() bool {
	switch t {
	case MovementRestock, MovementReception, MovementReturn, MovementManual:
		return true
	}
	return false
}

// ReferenceType names the business event that caused a movement.
type ReferenceType string

const (
	RefOrder        ReferenceType = "order"
	RefReception    ReferenceType = "reception"
	RefClientReturn ReferenceType = "client_return"
	RefManual       ReferenceType = "manual"
)

// Reference points at the document behind a movement.
type Reference struct {
	Type ReferenceType
	ID   id.ID
}

// Record is the stock of one product at one location. Quantity is never negative.
type Record struct {
	ID        id.ID     `db:"id" json:"id"`
	ProductID id.ID     `db:"product_id" json:"productId"`
	Location  string    `db:"location" json:"location"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Movement is an immutable ledger entry.
type Movement struct {
	ID            id.ID         `db:"id" json:"id"`
	Type          MovementType  `db:"movement_type" json:"type"`
	ProductID     id.ID         `db:"product_id" json:"productId"`
	FromLocation  *string       `db:"from_location" json:"fromLocation,omitempty"`
	ToLocation    *string       `db:"to_location" json:"toLocation,omitempty"`
	Quantity      int64         `db:"quantity" json:"quantity"`
	UnitCost      types.Money   `db:"unit_cost" json:"unitCost"`
	Reason        string        `db:"reason" json:"reason"`
	ReferenceType ReferenceType `db:"reference_type" json:"referenceType"`
	ReferenceID   id.ID         `db:"reference_id" json:"referenceId"`
	PerformedBy   string        `db:"performed_by" json:"performedBy"`
	CreatedAt     time.Time     `db:"created_at" json:"createdAt"`
}

// Allocation is the part of a request served by one bucket.
type Allocation struct {
	RecordID id.ID  `json:"recordId"`
	Location string `json:"location"`
	Quantity int64  `json:"quantity"`
}

// Restocked is one quantity put back by a reversal.
type Restocked struct {
	ProductID id.ID  `json:"productId"`
	Location  string `json:"location"`
	Quantity  int64  `json:"quantity"`
}

// FallbackLine is an order line used when an order has no sale movements.
type FallbackLine struct {
	ProductID id.ID
	Quantity  int64
}

// RestockInput describes a stock increase.
type RestockInput struct {
	ProductID id.ID
	Quantity  int64
	Location  string // default location when empty
	Type      MovementType
	Ref       Reference
	UnitCost  types.Money
	Reason    string
}

// Availability is the stock of a product across locations.
type Availability struct {
	ProductID id.ID    `json:"productId"`
	Total     int64    `json:"total"`
	Records   []Record `json:"records"`
}

func strPtr(s string) *string { return &s }
