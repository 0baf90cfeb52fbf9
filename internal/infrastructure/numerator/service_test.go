package numerator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "backoffice/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences. The whole ensure/lock/update
// round trip holds mu, standing in for the row lock.
type mockQuerier struct {
	mu       sync.Mutex
	locked   sync.Mutex
	counters map[string]int64
	failOn   string
	stmts    []string
}

func (m *mockQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	key := args[0].(string)
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stmts = append(m.stmts, firstWord(sql))
	if m.failOn != "" && strings.Contains(sql, m.failOn) {
		return pgconn.CommandTag{}, errors.New("connection reset")
	}
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	switch {
	case strings.Contains(sql, "INSERT"):
		if _, ok := m.counters[key]; !ok {
			m.counters[key] = 0
		}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "UPDATE"):
		m.counters[key] = args[1].(int64)
		m.locked.Unlock()
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return pgconn.CommandTag{}, errors.New("unexpected statement")
}

func (m *mockQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	m.locked.Lock()
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stmts = append(m.stmts, firstWord(sql))
	if m.failOn != "" && strings.Contains(sql, m.failOn) {
		m.locked.Unlock()
		return &mockRow{err: errors.New("connection reset")}
	}
	return &mockRow{val: m.counters[args[0].(string)]}
}

func firstWord(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func TestNext_IncrementsPerScope(t *testing.T) {
	q := &mockQuerier{}
	svc := NewWithQuerier(q)
	ctx := context.Background()

	b1 := corenumerator.InvoiceScope("B", 1)
	a1 := corenumerator.InvoiceScope("A", 1)

	n, err := svc.Next(ctx, b1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Next(ctx, b1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = svc.Next(ctx, a1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "scopes are independent")
}

func TestNext_StatementOrder(t *testing.T) {
	q := &mockQuerier{}
	_, err := NewWithQuerier(q).Next(context.Background(), corenumerator.CreditNoteScope(2025), 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"INSERT", "SELECT", "UPDATE"}, q.stmts)
}

func TestNext_ObservedMaxBootstrapsCounter(t *testing.T) {
	q := &mockQuerier{}
	svc := NewWithQuerier(q)
	ctx := context.Background()
	scope := corenumerator.CreditNoteScope(2025)

	n, err := svc.Next(ctx, scope, 41)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = svc.Next(ctx, scope, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(43), n, "a stale observed max never moves the counter back")
}

func TestNext_PropagatesQueryError(t *testing.T) {
	svc := NewWithQuerier(&mockQuerier{failOn: "FOR UPDATE"})

	_, err := svc.Next(context.Background(), corenumerator.InvoiceScope("B", 1), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice:B:1")
}

func TestNext_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	q := &mockQuerier{}
	svc := NewWithQuerier(q)
	scope := corenumerator.InvoiceScope("B", 1)

	const callers = 20
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := svc.Next(context.Background(), scope, 0)
			assert.NoError(t, err)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, callers)
	for i := int64(1); i <= callers; i++ {
		assert.True(t, seen[i], "missing %d", i)
	}
}
