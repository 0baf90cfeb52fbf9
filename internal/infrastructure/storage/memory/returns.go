package memory

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/entity"
	"backoffice/internal/core/id"
	"backoffice/internal/domain"
	"backoffice/internal/domain/documents/client_return"
)

// ReturnRepo implements client_return.Repository.
type ReturnRepo struct{ s *Store }

func (r *ReturnRepo) Create(ctx context.Context, ret *client_return.ClientReturn) error {
	return r.s.do(ctx, func(st *state) error {
		row := *ret
		row.Items = nil
		st.returns[ret.ID] = row
		return nil
	})
}

func (r *ReturnRepo) CreateItems(ctx context.Context, items []client_return.Item) error {
	return r.s.do(ctx, func(st *state) error {
		st.returnItems = append(st.returnItems, items...)
		return nil
	})
}

func (r *ReturnRepo) GetByID(ctx context.Context, returnID id.ID) (*client_return.ClientReturn, error) {
	var out *client_return.ClientReturn
	err := r.s.do(ctx, func(st *state) error {
		ret, ok := st.returns[returnID]
		if !ok || ret.DeletionMark {
			return apperror.NewReturnNotFound(returnID.String())
		}
		out = &ret
		return nil
	})
	return out, err
}

func (r *ReturnRepo) GetForUpdate(ctx context.Context, returnID id.ID) (*client_return.ClientReturn, error) {
	return r.GetByID(ctx, returnID)
}

func (r *ReturnRepo) GetItems(ctx context.Context, returnID id.ID) ([]client_return.Item, error) {
	var out []client_return.Item
	err := r.s.do(ctx, func(st *state) error {
		for _, it := range st.returnItems {
			if it.ReturnID == returnID {
				out = append(out, it)
			}
		}
		return nil
	})
	return out, err
}

func (r *ReturnRepo) GetItemsForUpdate(ctx context.Context, returnID id.ID) ([]client_return.Item, error) {
	return r.GetItems(ctx, returnID)
}

func (r *ReturnRepo) Update(ctx context.Context, ret *client_return.ClientReturn) error {
	return r.s.do(ctx, func(st *state) error {
		cur, ok := st.returns[ret.ID]
		if !ok {
			return apperror.NewReturnNotFound(ret.ID.String())
		}
		if cur.Version != ret.Version {
			return apperror.NewConcurrentModification("client_return", ret.ID.String())
		}
		ret.Version++
		row := *ret
		row.Items = nil
		st.returns[ret.ID] = row
		return nil
	})
}

func (r *ReturnRepo) CreateCreditNote(ctx context.Context, cn *client_return.CreditNote) error {
	return r.s.do(ctx, func(st *state) error {
		for _, other := range st.creditNotes {
			if other.Number == cn.Number {
				return apperror.NewConflict("duplicate credit note number").WithDetail("number", cn.Number)
			}
		}
		st.creditNotes[cn.ID] = *cn
		return nil
	})
}

func (r *ReturnRepo) GetCreditNote(ctx context.Context, creditNoteID id.ID) (*client_return.CreditNote, error) {
	var out *client_return.CreditNote
	err := r.s.do(ctx, func(st *state) error {
		cn, ok := st.creditNotes[creditNoteID]
		if !ok {
			return apperror.NewNotFound("credit_note", creditNoteID.String())
		}
		out = &cn
		return nil
	})
	return out, err
}

// CreditNotesByReturn returns every credit note issued for a return.
func (r *ReturnRepo) CreditNotesByReturn(ctx context.Context, returnID id.ID) []client_return.CreditNote {
	var out []client_return.CreditNote
	_ = r.s.do(ctx, func(st *state) error {
		for _, cn := range sortedValues(st.creditNotes, creditNoteBase) {
			if cn.ReturnID == returnID {
				out = append(out, cn)
			}
		}
		return nil
	})
	return out
}

func (r *ReturnRepo) MaxCreditNoteSequence(ctx context.Context, year int) (int64, error) {
	var n int64
	err := r.s.do(ctx, func(st *state) error {
		for _, cn := range st.creditNotes {
			if cn.Year == year {
				n = max(n, cn.Sequence)
			}
		}
		return nil
	})
	return n, err
}

func (r *ReturnRepo) List(ctx context.Context, f domain.ListFilter) (domain.ListResult[client_return.ClientReturn], error) {
	var res domain.ListResult[client_return.ClientReturn]
	err := r.s.do(ctx, func(st *state) error {
		res = page(sortedValues(st.returns, returnBase), f, returnBase)
		return nil
	})
	return res, err
}

func returnBase(r *client_return.ClientReturn) *entity.Base { return &r.Base }
func creditNoteBase(cn *client_return.CreditNote) *entity.Base { return &cn.Base }
