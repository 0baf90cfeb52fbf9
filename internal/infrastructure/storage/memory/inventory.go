package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/registers/inventory"
)

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct{ s *Store }

func byQuantityDesc(a, b inventory.Record) int {
	if c := cmp.Compare(b.Quantity, a.Quantity); c != 0 {
		return c
	}
	return cmp.Compare(a.Location, b.Location)
}

func (r *InventoryRepo) LockStockedRecords(ctx context.Context, productID id.ID) ([]inventory.Record, error) {
	var out []inventory.Record
	err := r.s.do(ctx, func(st *state) error {
		for _, rec := range st.records {
			if rec.ProductID == productID && rec.Quantity > 0 {
				out = append(out, rec)
			}
		}
		return nil
	})
	slices.SortFunc(out, byQuantityDesc)
	return out, err
}

func (r *InventoryRepo) UpdateQuantities(ctx context.Context, records []inventory.Record) error {
	return r.s.do(ctx, func(st *state) error {
		for _, rec := range records {
			cur, ok := st.records[rec.ID]
			if !ok {
				return apperror.NewNotFound("inventory_record", rec.ID.String())
			}
			if rec.Quantity < 0 {
				return apperror.NewInsufficientStock(rec.ProductID.String(), -rec.Quantity, 0)
			}
			cur.Quantity = rec.Quantity
			cur.UpdatedAt = rec.UpdatedAt
			st.records[rec.ID] = cur
		}
		return nil
	})
}

func (r *InventoryRepo) AddQuantity(ctx context.Context, productID id.ID, location string, quantity int64) (inventory.Record, error) {
	var out inventory.Record
	err := r.s.do(ctx, func(st *state) error {
		now := time.Now().UTC()
		for recID, rec := range st.records {
			if rec.ProductID == productID && rec.Location == location {
				rec.Quantity += quantity
				rec.UpdatedAt = now
				st.records[recID] = rec
				out = rec
				return nil
			}
		}
		out = inventory.Record{
			ID:        id.New(),
			ProductID: productID,
			Location:  location,
			Quantity:  quantity,
			UpdatedAt: now,
		}
		st.records[out.ID] = out
		return nil
	})
	return out, err
}

func (r *InventoryRepo) AppendMovements(ctx context.Context, movements []inventory.Movement) error {
	return r.s.do(ctx, func(st *state) error {
		st.movements = append(st.movements, movements...)
		return nil
	})
}

func (r *InventoryRepo) MovementsByReference(ctx context.Context, ref inventory.Reference) ([]inventory.Movement, error) {
	var out []inventory.Movement
	err := r.s.do(ctx, func(st *state) error {
		for _, m := range st.movements {
			if m.ReferenceType == ref.Type && m.ReferenceID == ref.ID {
				out = append(out, m)
			}
		}
		return nil
	})
	return out, err
}

func (r *InventoryRepo) RecordsByProduct(ctx context.Context, productID id.ID) ([]inventory.Record, error) {
	var out []inventory.Record
	err := r.s.do(ctx, func(st *state) error {
		for _, rec := range st.records {
			if rec.ProductID == productID {
				out = append(out, rec)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b inventory.Record) int { return cmp.Compare(a.Location, b.Location) })
	return out, err
}

// Movements returns the whole movement log, oldest first.
func (r *InventoryRepo) Movements(ctx context.Context) []inventory.Movement {
	var out []inventory.Movement
	_ = r.s.do(ctx, func(st *state) error {
		out = slices.Clone(st.movements)
		return nil
	})
	return out
}

// StockAt returns the quantity of (product, location), 0 when there is no record.
func (r *InventoryRepo) StockAt(ctx context.Context, productID id.ID, location string) int64 {
	recs, _ := r.RecordsByProduct(ctx, productID)
	for _, rec := range recs {
		if rec.Location == location {
			return rec.Quantity
		}
	}
	return 0
}
