package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/id"
	"backoffice/internal/core/numerator"
)

func TestRunInTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	productID := id.New()

	_, err := s.Inventory().AddQuantity(ctx, productID, "main", 5)
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.Inventory().AddQuantity(ctx, productID, "main", 10); err != nil {
			return err
		}
		_, err := s.Sequencer().Next(ctx, "invoice:B:1", 0)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, int64(5), s.Inventory().StockAt(ctx, productID, "main"))
	n, err := s.Sequencer().Next(ctx, "invoice:B:1", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "counter advanced inside a rolled back transaction")
}

func TestRunInTransaction_CancelledContextRollsBack(t *testing.T) {
	s := NewStore()
	productID := id.New()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.RunInTransaction(ctx, func(txCtx context.Context) error {
		_, err := s.Inventory().AddQuantity(txCtx, productID, "main", 3)
		cancel()
		return err
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), s.Inventory().StockAt(context.Background(), productID, "main"))
}

func TestRunInTransaction_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	productID := id.New()

	err := s.RunInTransaction(ctx, func(ctx context.Context) error {
		err := s.RunInTransaction(ctx, func(ctx context.Context) error {
			_, err := s.Inventory().AddQuantity(ctx, productID, "main", 2)
			return err
		})
		require.NoError(t, err)
		return errors.New("outer fails")
	})
	require.Error(t, err)
	assert.Equal(t, int64(0), s.Inventory().StockAt(ctx, productID, "main"))
}

func TestSequencer_ConcurrentCallersGetDistinctNumbers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	scope := numerator.InvoiceScope("B", 1)

	const callers = 32
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]bool)
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.RunInTransaction(ctx, func(ctx context.Context) error {
				n, err := s.Sequencer().Next(ctx, scope, 0)
				if err != nil {
					return err
				}
				mu.Lock()
				defer mu.Unlock()
				assert.False(t, seen[n], "duplicate %d", n)
				seen[n] = true
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Len(t, seen, callers)
}

func TestSequencer_BootstrapsFromObservedMax(t *testing.T) {
	ctx := context.Background()
	g := NewStore().Sequencer()

	n, err := g.Next(ctx, "credit_note:2025", 41)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	n, err = g.Next(ctx, "credit_note:2025", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(43), n)
}

func TestInventoryRepo_LockStockedRecordsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Inventory()
	productID := id.New()

	for loc, q := range map[string]int64{"a": 3, "b": 7, "c": 3, "d": 0} {
		_, err := repo.AddQuantity(ctx, productID, loc, q)
		require.NoError(t, err)
	}

	recs, err := repo.LockStockedRecords(ctx, productID)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{recs[0].Location, recs[1].Location, recs[2].Location})
}
