package memory

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/domain/documents/reception"
)

// ReceptionRepo implements reception.Repository.
type ReceptionRepo struct{ s *Store }

func (r *ReceptionRepo) Create(ctx context.Context, rec *reception.Reception) error {
	return r.s.do(ctx, func(st *state) error {
		row := *rec
		row.Items = nil
		st.receptions[rec.ID] = row
		return nil
	})
}

func (r *ReceptionRepo) CreateItems(ctx context.Context, items []reception.Item) error {
	return r.s.do(ctx, func(st *state) error {
		st.receptionItems = append(st.receptionItems, items...)
		return nil
	})
}

func (r *ReceptionRepo) GetByID(ctx context.Context, receptionID id.ID) (*reception.Reception, error) {
	var out *reception.Reception
	err := r.s.do(ctx, func(st *state) error {
		rec, ok := st.receptions[receptionID]
		if !ok || rec.DeletionMark {
			return apperror.NewReceptionNotFound(receptionID.String())
		}
		out = &rec
		return nil
	})
	return out, err
}

func (r *ReceptionRepo) GetForUpdate(ctx context.Context, receptionID id.ID) (*reception.Reception, error) {
	return r.GetByID(ctx, receptionID)
}

func (r *ReceptionRepo) GetItems(ctx context.Context, receptionID id.ID) ([]reception.Item, error) {
	var out []reception.Item
	err := r.s.do(ctx, func(st *state) error {
		for _, it := range st.receptionItems {
			if it.ReceptionID == receptionID {
				out = append(out, it)
			}
		}
		return nil
	})
	return out, err
}

func (r *ReceptionRepo) Update(ctx context.Context, rec *reception.Reception) error {
	return r.s.do(ctx, func(st *state) error {
		cur, ok := st.receptions[rec.ID]
		if !ok {
			return apperror.NewReceptionNotFound(rec.ID.String())
		}
		if cur.Version != rec.Version {
			return apperror.NewConcurrentModification("reception", rec.ID.String())
		}
		rec.Version++
		row := *rec
		row.Items = nil
		st.receptions[rec.ID] = row
		return nil
	})
}
