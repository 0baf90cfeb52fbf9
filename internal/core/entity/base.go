// Package entity holds the fields shared by every persisted header row.
package entity

import (
	"time"

	"backoffice/internal/core/id"
)

// Base contains common fields for orders, invoices, returns, receptions and catalog rows.
type Base struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	// DeletionMark indicates a soft-deleted row
	DeletionMark bool `db:"deletion_mark" json:"deletionMark"`

	// Version is incremented by the repository on every update
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBase creates a Base with a fresh id and timestamps.
func NewBase() Base {
	now := time.Now().UTC()
	return Base{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch bumps the update timestamp.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}
