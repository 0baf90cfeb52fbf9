package memory

import (
	"context"

	"backoffice/internal/core/id"
	"backoffice/internal/domain/registers/finance"
)

// FinanceRepo implements finance.Repository.
type FinanceRepo struct{ s *Store }

func (r *FinanceRepo) Create(ctx context.Context, txs []finance.Transaction) error {
	return r.s.do(ctx, func(st *state) error {
		st.transactions = append(st.transactions, txs...)
		return nil
	})
}

func (r *FinanceRepo) ByInvoice(ctx context.Context, invoiceID id.ID) ([]finance.Transaction, error) {
	return r.filter(ctx, func(t finance.Transaction) bool {
		return t.InvoiceID != nil && *t.InvoiceID == invoiceID
	})
}

func (r *FinanceRepo) ByReturn(ctx context.Context, returnID id.ID) ([]finance.Transaction, error) {
	return r.filter(ctx, func(t finance.Transaction) bool {
		return t.ReturnID != nil && *t.ReturnID == returnID
	})
}

func (r *FinanceRepo) filter(ctx context.Context, keep func(finance.Transaction) bool) ([]finance.Transaction, error) {
	var out []finance.Transaction
	err := r.s.do(ctx, func(st *state) error {
		for _, t := range st.transactions {
			if keep(t) {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, err
}
