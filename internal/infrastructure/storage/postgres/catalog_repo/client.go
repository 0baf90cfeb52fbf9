package catalog_repo

import (
	"context"
	"fmt"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/id"
	"backoffice/internal/core/types"
	"backoffice/internal/domain/catalogs/client"
	"backoffice/internal/infrastructure/storage/postgres"
)

var clientSchema = postgres.NewSchema[client.Client]("clients", postgres.WithSearch("name", "tax_id"))

// ClientRepo implements client.Repository.
type ClientRepo struct {
	*postgres.BaseRepo[client.Client]
}

func NewClientRepo(txm *postgres.TxManager) *ClientRepo {
	return &ClientRepo{BaseRepo: postgres.NewBaseRepo(txm, clientSchema, "client")}
}

func (r *ClientRepo) GetByID(ctx context.Context, clientID id.ID) (*client.Client, error) {
	return r.Get(ctx, clientID)
}

// AdjustBalance adds delta in SQL so concurrent adjustments never lose an update.
func (r *ClientRepo) AdjustBalance(ctx context.Context, clientID id.ID, delta types.Money) error {
	const sql = `
		UPDATE clients
		SET balance = ROUND(balance + $2, 2), version = version + 1, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.Querier(ctx).Exec(ctx, sql, clientID, delta)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("client", clientID.String())
	}
	return nil
}

var _ client.Repository = (*ClientRepo)(nil)
