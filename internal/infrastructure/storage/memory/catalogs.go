package memory

import (
	"context"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/catalogs/client"
	"backoffice/internal/domain/catalogs/product"
)

// ProductRepo implements product.Repository.
type ProductRepo struct{ s *Store }

// Put inserts or replaces a product.
func (r *ProductRepo) Put(ctx context.Context, p product.Product) {
	_ = r.s.do(ctx, func(st *state) error {
		st.products[p.ID] = p
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	var out *product.Product
	err := r.s.do(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.DeletionMark {
			return apperror.NewNotFound("product", productID.String())
		}
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByIDs(ctx context.Context, ids []id.ID) (map[id.ID]*product.Product, error) {
	out := make(map[id.ID]*product.Product, len(ids))
	err := r.s.do(ctx, func(st *state) error {
		for _, pid := range ids {
			if p, ok := st.products[pid]; ok && !p.DeletionMark {
				out[pid] = &p
			}
		}
		return nil
	})
	return out, err
}

// ClientRepo implements client.Repository.
type ClientRepo struct{ s *Store }

// Put inserts or replaces a client.
func (r *ClientRepo) Put(ctx context.Context, c client.Client) {
	_ = r.s.do(ctx, func(st *state) error {
		st.clients[c.ID] = c
		return nil
	})
}

func (r *ClientRepo) GetByID(ctx context.Context, clientID id.ID) (*client.Client, error) {
	var out *client.Client
	err := r.s.do(ctx, func(st *state) error {
		c, ok := st.clients[clientID]
		if !ok || c.DeletionMark {
			return apperror.NewNotFound("client", clientID.String())
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *ClientRepo) GetForUpdate(ctx context.Context, clientID id.ID) (*client.Client, error) {
	return r.GetByID(ctx, clientID)
}

func (r *ClientRepo) AdjustBalance(ctx context.Context, clientID id.ID, delta types.Money) error {
	return r.s.do(ctx, func(st *state) error {
		c, ok := st.clients[clientID]
		if !ok {
			return apperror.NewNotFound("client", clientID.String())
		}
		c.Balance = types.Round(c.Balance.Add(delta))
		c.Version++
		c.Touch()
		st.clients[clientID] = c
		return nil
	})
}

// SettingsRepo implements settings.Repository.
type SettingsRepo struct{ s *Store }

func (r *SettingsRepo) Set(ctx context.Context, key, value string) {
	_ = r.s.do(ctx, func(st *state) error {
		st.settings[key] = value
		return nil
	})
}

func (r *SettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		v  string
		ok bool
	)
	err := r.s.do(ctx, func(st *state) error {
		v, ok = st.settings[key]
		return nil
	})
	return v, ok, err
}
