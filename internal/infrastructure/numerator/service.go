// Package numerator provides the PostgreSQL implementation of document numbering.
// It implements core/numerator.Generator on top of the sys_sequences table.
package numerator

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	corenumerator "backoffice/internal/core/numerator"
	"backoffice/internal/core/tx"
	"backoffice/internal/infrastructure/storage/postgres"
)

// Querier is the part of a connection the numerator needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Service issues gap-free numbers per scope.
//
// The counter row stays locked until the surrounding transaction ends, so
// numbers are serialized per scope and a rolled back document releases its number.
type Service struct {
	txm     tx.Manager
	querier func(ctx context.Context) Querier
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator that joins the transaction carried by ctx,
// or opens one when there is none.
func New(txm *postgres.TxManager) *Service {
	return &Service{
		txm:     txm,
		querier: func(ctx context.Context) Querier { return txm.GetQuerier(ctx) },
	}
}

// NewWithQuerier creates a numerator bound to a fixed querier.
// The caller owns transaction handling.
func NewWithQuerier(q Querier) *Service {
	return &Service{
		querier: func(context.Context) Querier { return q },
	}
}

// Next returns max(observedMax, counter) + 1 and stores it as the counter.
func (s *Service) Next(ctx context.Context, scope corenumerator.Scope, observedMax int64) (int64, error) {
	if s == nil {
		return 0, fmt.Errorf("numerator service is not initialized")
	}
	if observedMax < 0 {
		observedMax = 0
	}

	var next int64
	run := func(ctx context.Context) error {
		var err error
		next, err = s.next(ctx, s.querier(ctx), scope.String(), observedMax)
		return err
	}
	if s.txm == nil {
		return next, run(ctx)
	}
	return next, s.txm.RunInTransaction(ctx, run)
}

func (s *Service) next(ctx context.Context, q Querier, key string, observedMax int64) (int64, error) {
	if _, err := q.Exec(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 0)
		ON CONFLICT (key) DO NOTHING
	`, key); err != nil {
		return 0, fmt.Errorf("ensure sequence %s: %w", key, err)
	}

	var current int64
	if err := q.QueryRow(ctx, `
		SELECT current_val FROM sys_sequences WHERE key = $1 FOR UPDATE
	`, key).Scan(&current); err != nil {
		return 0, fmt.Errorf("lock sequence %s: %w", key, err)
	}

	next := max(observedMax, current) + 1
	if _, err := q.Exec(ctx, `
		UPDATE sys_sequences SET current_val = $2, updated_at = NOW() WHERE key = $1
	`, key, next); err != nil {
		return 0, fmt.Errorf("advance sequence %s: %w", key, err)
	}
	return next, nil
}
