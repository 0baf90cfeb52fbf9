package numerator

import (
	"context"
	"sync"
)

// MockGenerator is a test implementation of Generator.
// Without NextFunc it keeps an in-process counter per scope.
type MockGenerator struct {
	NextFunc func(ctx context.Context, scope Scope, observedMax int64) (int64, error)

	mu       sync.Mutex
	counters map[Scope]int64
}

// Next implements Generator.
func (m *MockGenerator) Next(ctx context.Context, scope Scope, observedMax int64) (int64, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, scope, observedMax)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[Scope]int64)
	}
	next := max(observedMax, m.counters[scope]) + 1
	m.counters[scope] = next
	return next, nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
