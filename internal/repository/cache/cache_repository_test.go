package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/route-search-service/internal/pkg/errors"
	"github.com/route-search-service/internal/repository/cache"
)

func getTestRedis(t *testing.T) *cache.Redis {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	return cache.NewRedisFromClient(client, "test:", zap.NewNop())
}

func TestCacheRepository_RoundTrip(t *testing.T) {
	r := getTestRedis(t)
	defer r.Close()

	repo := cache.NewCacheRepository(r)
	ctx := context.Background()
	key := "cache:roundtrip"
	defer repo.Delete(ctx, key)

	val, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, val, "miss must be (nil, nil)")

	require.NoError(t, repo.Set(ctx, key, []byte("payload"), time.Minute))

	exists, err := repo.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	val, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), val)

	require.NoError(t, repo.Delete(ctx, key))
	exists, err = repo.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheRepository_DeleteNoKeys(t *testing.T) {
	r := getTestRedis(t)
	defer r.Close()

	assert.NoError(t, cache.NewCacheRepository(r).Delete(context.Background()))
}

func TestCacheRepository_KeyPrefix(t *testing.T) {
	r := getTestRedis(t)
	defer r.Close()

	repo := cache.NewCacheRepository(r)
	ctx := context.Background()
	defer repo.Delete(ctx, "cache:prefixed")

	require.NoError(t, repo.Set(ctx, "cache:prefixed", []byte("x"), time.Minute))

	raw, err := r.Client().Get(ctx, "test:cache:prefixed").Result()
	require.NoError(t, err)
	assert.Equal(t, "x", raw)
}

func TestCacheRepository_ClosedClient(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	require.NoError(t, client.Close())

	repo := cache.NewCacheRepository(cache.NewRedisFromClient(client, "", zap.NewNop()))

	_, err := repo.Get(context.Background(), "any")
	assert.ErrorIs(t, err, apperrors.ErrCacheError)

	err = repo.Set(context.Background(), "any", []byte("x"), time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrCacheError)
}
