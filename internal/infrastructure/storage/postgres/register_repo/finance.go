package register_repo

import (
	"context"

	"backoffice/internal/core/id"
	"backoffice/internal/domain/registers/finance"
	"backoffice/internal/infrastructure/storage/postgres"
)

var transactionSchema = postgres.NewSchema[finance.Transaction]("transactions", postgres.WithDefaultOrder("date"))

// FinanceRepo implements finance.Repository.
type FinanceRepo struct {
	base *postgres.BaseRepo[finance.Transaction]
}

func NewFinanceRepo(txm *postgres.TxManager) *FinanceRepo {
	return &FinanceRepo{base: postgres.NewBaseRepo(txm, transactionSchema, "transaction")}
}

func (r *FinanceRepo) Create(ctx context.Context, txs []finance.Transaction) error {
	return r.base.InsertMany(ctx, txs)
}

func (r *FinanceRepo) ByInvoice(ctx context.Context, invoiceID id.ID) ([]finance.Transaction, error) {
	return r.by(ctx, "invoice_id", invoiceID)
}

func (r *FinanceRepo) ByReturn(ctx context.Context, returnID id.ID) ([]finance.Transaction, error) {
	return r.by(ctx, "return_id", returnID)
}

func (r *FinanceRepo) by(ctx context.Context, column string, value id.ID) ([]finance.Transaction, error) {
	return r.base.Find(ctx, postgres.Query[finance.Transaction]{
		Where:   []postgres.Condition[finance.Transaction]{postgres.Eq(transactionSchema.MustColumn(column), value)},
		OrderBy: []postgres.Order[finance.Transaction]{postgres.Asc(transactionSchema.MustColumn("date"))},
	})
}

var _ finance.Repository = (*FinanceRepo)(nil)
