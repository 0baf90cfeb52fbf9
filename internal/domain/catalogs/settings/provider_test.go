package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"backoffice/internal/core/types"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func TestRepositoryProvider(t *testing.T) {
	ctx := context.Background()
	def := types.MustMoney("21")

	t.Run("stored value", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Get", ctx, KeyTaxRate).Return("10.5", true, nil)

		rate, err := NewRepositoryProvider(repo, def).TaxRate(ctx)
		require.NoError(t, err)
		assert.Equal(t, "10.5", rate.String())
	})

	t.Run("default when unset", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Get", ctx, KeyTaxRate).Return("", false, nil)

		rate, err := NewRepositoryProvider(repo, def).TaxRate(ctx)
		require.NoError(t, err)
		assert.True(t, def.Equal(rate))
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Get", ctx, KeyTaxRate).Return("", false, errors.New("down"))

		_, err := NewRepositoryProvider(repo, def).TaxRate(ctx)
		assert.Error(t, err)
	})

	t.Run("out of range", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Get", ctx, KeyTaxRate).Return("150", true, nil)

		_, err := NewRepositoryProvider(repo, def).TaxRate(ctx)
		assert.Error(t, err)
	})
}
