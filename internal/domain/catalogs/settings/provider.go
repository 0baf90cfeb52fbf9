// Package settings exposes the company settings the engine reads.
package settings

import (
	"context"

	"github.com/shopspring/decimal"

	"backoffice/internal/core/apperror"
	"backoffice/internal/core/types"
)

// KeyTaxRate is the settings row holding the VAT percentage.
const KeyTaxRate = "tax_rate"

// Repository reads raw settings values.
type Repository interface {
	// Get returns the value of key; ok is false when the key is not set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// Provider is the read capability used by invoicing.
type Provider interface {
	// TaxRate returns the VAT percentage (21 means 21%).
	TaxRate(ctx context.Context) (types.Money, error)
}

// StaticProvider returns a fixed tax rate.
type StaticProvider struct {
	Rate types.Money
}

func (p StaticProvider) TaxRate(context.Context) (types.Money, error) {
	return p.Rate, nil
}

// RepositoryProvider reads the tax rate from Repository, falling back to a default.
type RepositoryProvider struct {
	repo        Repository
	defaultRate types.Money
}

func NewRepositoryProvider(repo Repository, defaultRate types.Money) *RepositoryProvider {
	return &RepositoryProvider{repo: repo, defaultRate: defaultRate}
}

func (p *RepositoryProvider) TaxRate(ctx context.Context) (types.Money, error) {
	raw, ok, err := p.repo.Get(ctx, KeyTaxRate)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok || raw == "" {
		return p.defaultRate, nil
	}
	return ParseTaxRate(raw)
}

// ParseTaxRate validates a stored tax rate.
func ParseTaxRate(raw string) (types.Money, error) {
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.NewInternal(err).WithDetail("setting", KeyTaxRate)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, apperror.NewValidation("tax rate out of range").WithDetail("tax_rate", raw)
	}
	return rate, nil
}
