package numerator

import (
	"context"
)

// Generator issues sequential numbers per scope.
// Implementations live in the infrastructure layer.
type Generator interface {
	// Next returns max(observedMax, stored counter) + 1 and persists it for scope.
	//
	// It must run in the caller's transaction and hold a row lock on the
	// counter until commit, so two callers on the same scope never see the
	// same value. observedMax is the highest number already present in the
	// document table; it bootstraps counters that were seeded late.
	Next(ctx context.Context, scope Scope, observedMax int64) (int64, error)
}
