package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var errNoTx = errors.New("batch write outside a transaction")

// CopyRows streams rows into the schema's table with COPY.
// The active transaction is required so the rows commit with the rest of the operation.
func CopyRows[T any](ctx context.Context, txm *TxManager, schema *Schema[T], rows []T) (int64, error) {
	t := txm.GetTx(ctx)
	if t == nil {
		return 0, fmt.Errorf("copy %s: %w", schema.Table(), errNoTx)
	}
	cols := schema.Columns()
	src := make([][]any, len(rows))
	for i := range rows {
		data := StructToMap(&rows[i])
		vals := make([]any, len(cols))
		for j, c := range cols {
			vals[j] = data[c]
		}
		src[i] = vals
	}
	return t.CopyFrom(ctx, pgx.Identifier{schema.Table()}, cols, pgx.CopyFromRows(src))
}

// ExecBatch sends the statements in one round-trip and stops at the first failure.
func ExecBatch(ctx context.Context, txm *TxManager, stmts []squirrel.Sqlizer) error {
	if len(stmts) == 0 {
		return nil
	}
	t := txm.GetTx(ctx)
	if t == nil {
		return fmt.Errorf("exec batch: %w", errNoTx)
	}

	var batch pgx.Batch
	for i, s := range stmts {
		sql, args, err := s.ToSql()
		if err != nil {
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
		batch.Queue(sql, args...)
	}

	br := t.SendBatch(ctx, &batch)
	defer br.Close()
	for i := range stmts {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	return nil
}
