// Package tx defines the unit-of-work contract used by every domain service.
// Domain code depends on this interface; the Postgres and in-memory stores
// provide the implementations.
package tx

import (
	"context"
)

// Manager runs a function inside one transaction.
//
// If fn returns an error (or ctx is cancelled) every write performed through
// the context passed to fn is rolled back. Nested calls reuse the transaction
// already stored in ctx, so a service may call another service's operation
// and both commit or roll back together.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ManagerFunc adapts a function to Manager.
type ManagerFunc func(ctx context.Context, fn func(ctx context.Context) error) error

func (f ManagerFunc) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return f(ctx, fn)
}
