package memory

import (
	"context"

	"backoffice/internal/core/numerator"
)

// Sequencer implements numerator.Generator on the store's counters.
type Sequencer struct{ s *Store }

func (g *Sequencer) Next(ctx context.Context, scope numerator.Scope, observedMax int64) (int64, error) {
	var next int64
	err := g.s.do(ctx, func(st *state) error {
		next = max(observedMax, st.sequences[scope]) + 1
		st.sequences[scope] = next
		return nil
	})
	return next, err
}

var _ numerator.Generator = (*Sequencer)(nil)
