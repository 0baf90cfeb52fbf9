// Package client provides the Client catalog: customers with a running account balance.
package client

import (
	"backoffice/internal/core/entity"
	"backoffice/internal/core/types"
)

// Client is a customer.
type Client struct {
	entity.Base

	Name    string `db:"name" json:"name"`
	TaxID   string `db:"tax_id" json:"taxId"`
	Address string `db:"address" json:"address"`

	// Balance is what the client owes; credit notes decrease it
	Balance types.Money `db:"balance" json:"balance"`
}
