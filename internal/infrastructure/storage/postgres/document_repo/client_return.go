package document_repo

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/documents/client_return"
	"backoffice/internal/infrastructure/storage/postgres"
)

var (
	returnSchema     = postgres.NewSchema[client_return.ClientReturn]("client_returns", postgres.WithSearch("customer_name", "reason"))
	returnItemSchema = postgres.NewSchema[client_return.Item]("client_return_items")
	creditNoteSchema = postgres.NewSchema[client_return.CreditNote]("credit_notes", postgres.WithSearch("number", "client_name"))
)

// ClientReturnRepo implements client_return.Repository.
type ClientReturnRepo struct {
	tables      documentTables[client_return.ClientReturn, client_return.Item]
	creditNotes *postgres.BaseRepo[client_return.CreditNote]
}

func NewClientReturnRepo(txm *postgres.TxManager) *ClientReturnRepo {
	return &ClientReturnRepo{
		tables: newDocumentTables(txm, returnSchema, returnItemSchema, "client_return", "return_id",
			[]postgres.Order[client_return.Item]{postgres.Asc(returnItemSchema.MustColumn("id"))},
			notFoundAs(apperror.NewReturnNotFound)),
		creditNotes: postgres.NewBaseRepo(txm, creditNoteSchema, "credit_note"),
	}
}

func (r *ClientReturnRepo) Create(ctx context.Context, ret *client_return.ClientReturn) error {
	return r.tables.insertHeader(ctx, ret)
}

func (r *ClientReturnRepo) CreateItems(ctx context.Context, items []client_return.Item) error {
	return r.tables.insertLines(ctx, items)
}

func (r *ClientReturnRepo) GetByID(ctx context.Context, returnID id.ID) (*client_return.ClientReturn, error) {
	return r.tables.get(ctx, returnID, false)
}

func (r *ClientReturnRepo) GetForUpdate(ctx context.Context, returnID id.ID) (*client_return.ClientReturn, error) {
	return r.tables.get(ctx, returnID, true)
}

func (r *ClientReturnRepo) GetItems(ctx context.Context, returnID id.ID) ([]client_return.Item, error) {
	return r.tables.linesOf(ctx, returnID, false)
}

func (r *ClientReturnRepo) GetItemsForUpdate(ctx context.Context, returnID id.ID) ([]client_return.Item, error) {
	return r.tables.linesOf(ctx, returnID, true)
}

func (r *ClientReturnRepo) Update(ctx context.Context, ret *client_return.ClientReturn) error {
	return r.tables.save(ctx, ret.ID, &ret.Version, ret)
}

func (r *ClientReturnRepo) CreateCreditNote(ctx context.Context, cn *client_return.CreditNote) error {
	return r.creditNotes.Insert(ctx, cn)
}

func (r *ClientReturnRepo) GetCreditNote(ctx context.Context, creditNoteID id.ID) (*client_return.CreditNote, error) {
	return r.creditNotes.Get(ctx, creditNoteID)
}

func (r *ClientReturnRepo) MaxCreditNoteSequence(ctx context.Context, year int) (int64, error) {
	return r.creditNotes.MaxInt(ctx, creditNoteSchema.MustColumn("sequence"),
		postgres.Eq(creditNoteSchema.MustColumn("year"), year))
}

func (r *ClientReturnRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[client_return.ClientReturn], error) {
	return r.tables.header.List(ctx, f)
}

var _ client_return.Repository = (*ClientReturnRepo)(nil)
