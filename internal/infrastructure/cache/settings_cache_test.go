package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return redis.NewStringResult(args.String(0), args.Error(1))
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, ttl)
	return redis.NewStatusResult("OK", args.Error(0))
}

func (m *mockStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return redis.NewIntResult(1, args.Error(0))
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func TestSettingsCache_Hit(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	repo := new(mockRepo)
	store.On("Get", ctx, keyPrefix+"tax_rate").Return("10.5", nil)

	v, ok, err := NewSettingsCache(store, repo, time.Minute).Get(ctx, "tax_rate")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "10.5", v)
	repo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestSettingsCache_MissLoadsAndStores(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	repo := new(mockRepo)
	store.On("Get", ctx, keyPrefix+"tax_rate").Return("", redis.Nil)
	store.On("Set", ctx, keyPrefix+"tax_rate", "21", time.Minute).Return(nil)
	repo.On("Get", ctx, "tax_rate").Return("21", true, nil)

	v, ok, err := NewSettingsCache(store, repo, time.Minute).Get(ctx, "tax_rate")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "21", v)
	store.AssertExpectations(t)
}

func TestSettingsCache_UnsetKeyNotCached(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	repo := new(mockRepo)
	store.On("Get", ctx, keyPrefix+"tax_rate").Return("", redis.Nil)
	repo.On("Get", ctx, "tax_rate").Return("", false, nil)

	_, ok, err := NewSettingsCache(store, repo, time.Minute).Get(ctx, "tax_rate")
	require.NoError(t, err)
	assert.False(t, ok)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSettingsCache_RedisDownFallsBack(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	repo := new(mockRepo)
	store.On("Get", ctx, keyPrefix+"tax_rate").Return("", errors.New("dial tcp: refused"))
	store.On("Set", ctx, keyPrefix+"tax_rate", "21", time.Minute).Return(errors.New("dial tcp: refused"))
	repo.On("Get", ctx, "tax_rate").Return("21", true, nil)

	v, ok, err := NewSettingsCache(store, repo, time.Minute).Get(ctx, "tax_rate")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "21", v)
}

func TestSettingsCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	store := new(mockStore)
	store.On("Del", ctx, []string{keyPrefix + "tax_rate"}).Return(nil)

	require.NoError(t, NewSettingsCache(store, new(mockRepo), 0).Invalidate(ctx, "tax_rate"))
	store.AssertExpectations(t)
}
