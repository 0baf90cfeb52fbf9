// Package register_repo provides PostgreSQL implementations for the ledger registers.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"backoffice/internal/core/id"
	"backoffice/internal/domain/registers/inventory"
	"backoffice/internal/infrastructure/storage/postgres"
)

const (
	inventoryTable = "inventory"
	movementsTable = "inventory_movements"
)

var (
	recordSchema   = postgres.NewSchema[inventory.Record](inventoryTable, postgres.WithDefaultOrder("location"))
	movementSchema = postgres.NewSchema[inventory.Movement](movementsTable, postgres.WithDefaultOrder("created_at"))
)

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	txm       *postgres.TxManager
	records   *postgres.BaseRepo[inventory.Record]
	movements *postgres.BaseRepo[inventory.Movement]
	builder   squirrel.StatementBuilderType
}

// NewInventoryRepo creates the inventory register repository.
func NewInventoryRepo(txm *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{
		txm:       txm,
		records:   postgres.NewBaseRepo(txm, recordSchema, "inventory_record"),
		movements: postgres.NewBaseRepo(txm, movementSchema, "inventory_movement"),
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// LockStockedRecords locks the product's non-empty buckets.
func (r *InventoryRepo) LockStockedRecords(ctx context.Context, productID id.ID) ([]inventory.Record, error) {
	const sql = `
		SELECT id, product_id, location, quantity, updated_at
		FROM inventory
		WHERE product_id = $1 AND quantity > 0
		ORDER BY quantity DESC, location ASC
		FOR UPDATE
	`
	var out []inventory.Record
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &out, sql, productID); err != nil {
		return nil, fmt.Errorf("lock inventory: %w", err)
	}
	return out, nil
}

// UpdateQuantities writes the new quantities in one round-trip.
// The table CHECK rejects a write that would go negative.
func (r *InventoryRepo) UpdateQuantities(ctx context.Context, records []inventory.Record) error {
	if len(records) == 0 {
		return nil
	}
	stmts := make([]squirrel.Sqlizer, len(records))
	for i, rec := range records {
		stmts[i] = r.builder.Update(inventoryTable).
			Set("quantity", rec.Quantity).
			Set("updated_at", rec.UpdatedAt).
			Where(squirrel.Eq{"id": rec.ID})
	}
	return postgres.ExecBatch(ctx, r.txm, stmts)
}

// AddQuantity upserts the (product, location) bucket.
func (r *InventoryRepo) AddQuantity(ctx context.Context, productID id.ID, location string, quantity int64) (inventory.Record, error) {
	const sql = `
		INSERT INTO inventory (id, product_id, location, quantity, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (product_id, location)
		DO UPDATE SET quantity = inventory.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING id, product_id, location, quantity, updated_at
	`
	var rec inventory.Record
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &rec, sql, id.New(), productID, location, quantity); err != nil {
		return rec, fmt.Errorf("upsert inventory: %w", err)
	}
	return rec, nil
}

// AppendMovements uses COPY inside a transaction and a multi-values INSERT otherwise.
func (r *InventoryRepo) AppendMovements(ctx context.Context, movements []inventory.Movement) error {
	if len(movements) == 0 {
		return nil
	}
	if r.txm.InTx(ctx) {
		if _, err := postgres.CopyRows(ctx, r.txm, movementSchema, movements); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
		return nil
	}
	return r.movements.InsertMany(ctx, movements)
}

func (r *InventoryRepo) MovementsByReference(ctx context.Context, ref inventory.Reference) ([]inventory.Movement, error) {
	return r.movements.Find(ctx, postgres.Query[inventory.Movement]{
		Where: []postgres.Condition[inventory.Movement]{
			postgres.Eq(movementSchema.MustColumn("reference_type"), string(ref.Type)),
			postgres.Eq(movementSchema.MustColumn("reference_id"), ref.ID),
		},
		OrderBy: []postgres.Order[inventory.Movement]{
			postgres.Asc(movementSchema.MustColumn("created_at")),
			postgres.Asc(movementSchema.MustColumn("id")),
		},
	})
}

func (r *InventoryRepo) RecordsByProduct(ctx context.Context, productID id.ID) ([]inventory.Record, error) {
	return r.records.Find(ctx, postgres.Query[inventory.Record]{
		Where:   []postgres.Condition[inventory.Record]{postgres.Eq(recordSchema.MustColumn("product_id"), productID)},
		OrderBy: []postgres.Order[inventory.Record]{postgres.Asc(recordSchema.MustColumn("location"))},
	})
}

var _ inventory.Repository = (*InventoryRepo)(nil)
