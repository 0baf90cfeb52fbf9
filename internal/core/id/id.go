// Package id generates the identifiers of every entity.
package id

import (
	"bytes"

	"github.com/google/uuid"
)

// ID is the UUID type stored in every id column.
type ID = uuid.UUID

// New returns a UUIDv7, so ids sort by creation time.
// If the clock or entropy source fails it falls back to a random v4.
func New() ID {
	if v, err := uuid.NewV7(); err == nil {
		return v
	}
	return uuid.New()
}

func Parse(s string) (ID, error) { return uuid.Parse(s) }

// MustParse is for fixtures and constants.
func MustParse(s string) ID { return uuid.MustParse(s) }

func IsNil(v ID) bool { return v == uuid.Nil }

// Compare orders ids bytewise; for v7 ids that is creation order.
func Compare(a, b ID) int { return bytes.Compare(a[:], b[:]) }
