// Package document_repo provides PostgreSQL implementations for document repositories.
// A document is a header row plus line rows keyed by the header id.
package document_repo

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/infrastructure/storage/postgres"
)

// documentTables pairs a header table with its line table.
type documentTables[H, L any] struct {
	header *postgres.BaseRepo[H]
	lines  *postgres.BaseRepo[L]

	parent    postgres.Column[L]
	lineOrder []postgres.Order[L]

	// notFound builds the domain-specific error for a missing header.
	notFound func(id string) error
}

func newDocumentTables[H, L any](
	txm *postgres.TxManager,
	header *postgres.Schema[H],
	lines *postgres.Schema[L],
	entity, parentCol string,
	lineOrder []postgres.Order[L],
	notFound func(id string) error,
) documentTables[H, L] {
	return documentTables[H, L]{
		header:    postgres.NewBaseRepo(txm, header, entity),
		lines:     postgres.NewBaseRepo(txm, lines, entity+"_item"),
		parent:    lines.MustColumn(parentCol),
		lineOrder: lineOrder,
		notFound:  notFound,
	}
}

func (t documentTables[H, L]) insertHeader(ctx context.Context, h *H) error {
	return t.header.Insert(ctx, h)
}

func (t documentTables[H, L]) insertLines(ctx context.Context, rows []L) error {
	return t.lines.InsertMany(ctx, rows)
}

func (t documentTables[H, L]) get(ctx context.Context, docID id.ID, lock bool) (*H, error) {
	var (
		out *H
		err error
	)
	if lock {
		out, err = t.header.GetForUpdate(ctx, docID)
	} else {
		out, err = t.header.Get(ctx, docID)
	}
	if apperror.IsNotFound(err) {
		return nil, t.notFound(docID.String())
	}
	return out, err
}

// save writes the header guarded by version. A lost race surfaces as
// CONCURRENT_MODIFICATION, a vanished row as the document's not-found error.
func (t documentTables[H, L]) save(ctx context.Context, docID id.ID, version *int, h *H) error {
	if err := t.header.Save(ctx, docID, *version, h); err != nil {
		if apperror.IsConcurrentModification(err) {
			if _, getErr := t.get(ctx, docID, false); getErr != nil {
				return getErr
			}
		}
		return err
	}
	*version++
	return nil
}

func (t documentTables[H, L]) linesOf(ctx context.Context, docID id.ID, lock bool) ([]L, error) {
	return t.lines.Find(ctx, postgres.Query[L]{
		Where:     []postgres.Condition[L]{postgres.Eq(t.parent, docID)},
		OrderBy:   t.lineOrder,
		ForUpdate: lock,
	})
}

func notFoundAs(fn func(string) *apperror.AppError) func(string) error {
	return func(docID string) error { return fn(docID) }
}
