package memory

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/documents/invoice"
)

// InvoiceRepo implements invoice.Repository.
type InvoiceRepo struct{ s *Store }

func (r *InvoiceRepo) Create(ctx context.Context, inv *invoice.Invoice) error {
	return r.s.do(ctx, func(st *state) error {
		for _, other := range st.invoices {
			if other.InvoiceType == inv.InvoiceType && other.PointOfSale == inv.PointOfSale && other.Number == inv.Number {
				return apperror.NewConflict("duplicate invoice number").
					WithDetail("number", inv.DisplayNumber())
			}
		}
		row := *inv
		row.Items, row.Payments = nil, nil
		st.invoices[inv.ID] = row
		return nil
	})
}

func (r *InvoiceRepo) CreateItems(ctx context.Context, items []invoice.Item) error {
	return r.s.do(ctx, func(st *state) error {
		st.invoiceItems = append(st.invoiceItems, items...)
		return nil
	})
}

func (r *InvoiceRepo) GetByID(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	var out *invoice.Invoice
	err := r.s.do(ctx, func(st *state) error {
		inv, ok := st.invoices[invoiceID]
		if !ok || inv.DeletionMark {
			return apperror.NewNotFound("invoice", invoiceID.String())
		}
		out = &inv
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, invoiceID id.ID) (*invoice.Invoice, error) {
	return r.GetByID(ctx, invoiceID)
}

func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID id.ID) ([]invoice.Item, error) {
	var out []invoice.Item
	err := r.s.do(ctx, func(st *state) error {
		for _, it := range st.invoiceItems {
			if it.InvoiceID == invoiceID {
				out = append(out, it)
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepo) Update(ctx context.Context, inv *invoice.Invoice) error {
	return r.s.do(ctx, func(st *state) error {
		cur, ok := st.invoices[inv.ID]
		if !ok {
			return apperror.NewNotFound("invoice", inv.ID.String())
		}
		if cur.Version != inv.Version {
			return apperror.NewConcurrentModification("invoice", inv.ID.String())
		}
		inv.Version++
		row := *inv
		row.Items, row.Payments = nil, nil
		st.invoices[inv.ID] = row
		return nil
	})
}

func (r *InvoiceRepo) MaxNumber(ctx context.Context, invoiceType string, pointOfSale int) (int64, error) {
	var n int64
	err := r.s.do(ctx, func(st *state) error {
		for _, inv := range st.invoices {
			if inv.InvoiceType == invoiceType && inv.PointOfSale == pointOfSale {
				n = max(n, inv.Number)
			}
		}
		return nil
	})
	return n, err
}

func (r *InvoiceRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[invoice.Invoice], error) {
	var res domain.ListResult[invoice.Invoice]
	err := r.s.do(ctx, func(st *state) error {
		res = page(sortedValues(st.invoices, invoiceBase), f, invoiceBase)
		return nil
	})
	return res, err
}

func invoiceBase(inv *invoice.Invoice) *entity.Base { return &inv.Base }
