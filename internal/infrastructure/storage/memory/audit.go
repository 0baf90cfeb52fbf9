package memory

import (
	"context"
	"slices"
	"sync"

	"backoffice/internal/domain/audit"
)

// AuditLog keeps audit entries in memory. Err, when set, is returned by every Record call.
type AuditLog struct {
	mu      sync.Mutex
	entries []audit.Entry
	Err     error
}

func (l *AuditLog) Record(_ context.Context, entry audit.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return l.Err
	}
	l.entries = append(l.entries, entry)
	return nil
}

// Entries returns a copy of the recorded entries.
func (l *AuditLog) Entries() []audit.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

var _ audit.Recorder = (*AuditLog)(nil)
