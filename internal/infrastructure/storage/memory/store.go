// Package memory is an in-process implementation of every repository, the
// document sequencer and the transaction manager. It backs the "memory"
// storage mode and the service tests.
//
// Transactions are serialized by one mutex and roll back by restoring a
// snapshot of the whole state, so a failed operation leaves nothing behind.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/core/numerator"
	"backoffice/internal/core/tx"
	"backoffice/internal/domain"
	"backoffice/internal/domain/catalogs/client"
	"backoffice/internal/domain/catalogs/product"
	"backoffice/internal/domain/catalogs/settings"
	"backoffice/internal/domain/documents/client_return"
	"backoffice/internal/domain/documents/invoice"
	"backoffice/internal/domain/documents/order"
	"backoffice/internal/domain/documents/reception"
	"backoffice/internal/domain/registers/finance"
	"backoffice/internal/domain/registers/inventory"
)

type state struct {
	products map[id.ID]product.Product
	clients  map[id.ID]client.Client
	settings map[string]string

	orders     map[id.ID]order.Order
	orderItems []order.Item

	invoices     map[id.ID]invoice.Invoice
	invoiceItems []invoice.Item

	returns     map[id.ID]client_return.ClientReturn
	returnItems []client_return.Item
	creditNotes map[id.ID]client_return.CreditNote

	receptions     map[id.ID]reception.Reception
	receptionItems []reception.Item

	records      map[id.ID]inventory.Record
	movements    []inventory.Movement
	transactions []finance.Transaction

	sequences map[numerator.Scope]int64
}

func newState() *state {
	return &state{
		products:    make(map[id.ID]product.Product),
		clients:     make(map[id.ID]client.Client),
		settings:    make(map[string]string),
		orders:      make(map[id.ID]order.Order),
		invoices:    make(map[id.ID]invoice.Invoice),
		returns:     make(map[id.ID]client_return.ClientReturn),
		creditNotes: make(map[id.ID]client_return.CreditNote),
		receptions:  make(map[id.ID]reception.Reception),
		records:     make(map[id.ID]inventory.Record),
		sequences:   make(map[numerator.Scope]int64),
	}
}

func (st *state) clone() *state {
	return &state{
		products:       maps.Clone(st.products),
		clients:        maps.Clone(st.clients),
		settings:       maps.Clone(st.settings),
		orders:         maps.Clone(st.orders),
		orderItems:     slices.Clone(st.orderItems),
		invoices:       maps.Clone(st.invoices),
		invoiceItems:   slices.Clone(st.invoiceItems),
		returns:        maps.Clone(st.returns),
		returnItems:    slices.Clone(st.returnItems),
		creditNotes:    maps.Clone(st.creditNotes),
		receptions:     maps.Clone(st.receptions),
		receptionItems: slices.Clone(st.receptionItems),
		records:        maps.Clone(st.records),
		movements:      slices.Clone(st.movements),
		transactions:   slices.Clone(st.transactions),
		sequences:      maps.Clone(st.sequences),
	}
}

// Store holds all data in memory.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(bool)
	return ok
}

// RunInTransaction runs fn with exclusive access to the store.
// The state is restored when fn fails or ctx is cancelled.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	err := fn(context.WithValue(ctx, txKey{}, true))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// do runs fn on the state, taking the lock unless ctx is already in a transaction.
func (s *Store) do(ctx context.Context, fn func(st *state) error) error {
	if inTx(ctx) {
		return fn(s.st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Repositories.

func (s *Store) Products() *ProductRepo { return &ProductRepo{s} }
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s} }
func (s *Store) Settings() *SettingsRepo { return &SettingsRepo{s} }
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s} }
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s} }
func (s *Store) Returns() *ReturnRepo { return &ReturnRepo{s} }
func (s *Store) Receptions() *ReceptionRepo { return &ReceptionRepo{s} }
func (s *Store) Inventory() *InventoryRepo { return &InventoryRepo{s} }
func (s *Store) Finance() *FinanceRepo { return &FinanceRepo{s} }
func (s *Store) Sequencer() *Sequencer { return &Sequencer{s} }

// page applies the id filter, soft-delete filter and pagination of f.
// Rows are returned newest first.
func page[T any](rows []T, f domain.ListFilter, base func(*T) *entity.Base) domain.ListResult[T] {
	var ids map[id.ID]struct{}
	if len(f.IDs) > 0 {
		ids = make(map[id.ID]struct{}, len(f.IDs))
		for _, v := range f.IDs {
			ids[v] = struct{}{}
		}
	}

	filtered := make([]T, 0, len(rows))
	for i := range rows {
		b := base(&rows[i])
		if !f.IncludeDeleted && b.DeletionMark {
			continue
		}
		if ids != nil {
			if _, ok := ids[b.ID]; !ok {
				continue
			}
		}
		filtered = append(filtered, rows[i])
	}
	slices.SortStableFunc(filtered, func(a, b T) int {
		return base(&b).CreatedAt.Compare(base(&a).CreatedAt)
	})

	res := domain.ListResult[T]{TotalCount: int64(len(filtered)), Limit: f.Limit, Offset: f.Offset}
	start := min(max(f.Offset, 0), len(filtered))
	end := len(filtered)
	if f.Limit > 0 {
		end = min(start+f.Limit, end)
	}
	res.Items = filtered[start:end]
	return res
}

// sortedValues returns the map values in creation order.
func sortedValues[T any](m map[id.ID]T, base func(*T) *entity.Base) []T {
	out := slices.Collect(maps.Values(m))
	slices.SortStableFunc(out, func(a, b T) int {
		if c := base(&a).CreatedAt.Compare(base(&b).CreatedAt); c != 0 {
			return c
		}
		return id.Compare(base(&a).ID, base(&b).ID)
	})
	return out
}

var (
	_ tx.Manager               = (*Store)(nil)
	_ product.Repository       = (*ProductRepo)(nil)
	_ client.Repository        = (*ClientRepo)(nil)
	_ settings.Repository      = (*SettingsRepo)(nil)
	_ order.Repository         = (*OrderRepo)(nil)
	_ invoice.Repository       = (*InvoiceRepo)(nil)
	_ client_return.Repository = (*ReturnRepo)(nil)
	_ reception.Repository     = (*ReceptionRepo)(nil)
	_ inventory.Repository     = (*InventoryRepo)(nil)
	_ finance.Repository       = (*FinanceRepo)(nil)
)
