package document_repo

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/documents/reception"
	"backoffice/internal/infrastructure/storage/postgres"
)

var (
	receptionSchema     = postgres.NewSchema[reception.Reception]("receptions", postgres.WithSearch("supplier_name", "notes"))
	receptionItemSchema = postgres.NewSchema[reception.Item]("reception_items")
)

// ReceptionRepo implements reception.Repository.
type ReceptionRepo struct {
	tables documentTables[reception.Reception, reception.Item]
}

func NewReceptionRepo(txm *postgres.TxManager) *ReceptionRepo {
	return &ReceptionRepo{
		tables: newDocumentTables(txm, receptionSchema, receptionItemSchema, "reception", "reception_id",
			[]postgres.Order[reception.Item]{postgres.Asc(receptionItemSchema.MustColumn("id"))},
			notFoundAs(apperror.NewReceptionNotFound)),
	}
}

func (r *ReceptionRepo) Create(ctx context.Context, rec *reception.Reception) error {
	return r.tables.insertHeader(ctx, rec)
}

func (r *ReceptionRepo) CreateItems(ctx context.Context, items []reception.Item) error {
	return r.tables.insertLines(ctx, items)
}

func (r *ReceptionRepo) GetByID(ctx context.Context, receptionID id.ID) (*reception.Reception, error) {
	return r.tables.get(ctx, receptionID, false)
}

func (r *ReceptionRepo) GetForUpdate(ctx context.Context, receptionID id.ID) (*reception.Reception, error) {
	return r.tables.get(ctx, receptionID, true)
}

func (r *ReceptionRepo) GetItems(ctx context.Context, receptionID id.ID) ([]reception.Item, error) {
	return r.tables.linesOf(ctx, receptionID, false)
}

func (r *ReceptionRepo) Update(ctx context.Context, rec *reception.Reception) error {
	return r.tables.save(ctx, rec.ID, &rec.Version, rec)
}

var _ reception.Repository = (*ReceptionRepo)(nil)
