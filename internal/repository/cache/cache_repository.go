package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain/repository"
	apperrors "github.com/route-search-service/internal/pkg/errors"
)

type cacheRepository struct {
	redis  *Redis
	logger *zap.Logger
}

// NewCacheRepository - кеш поверх Redis. Keys are namespaced with the
// configured prefix; failures come back as CACHE_ERROR.
func NewCacheRepository(r *Redis) repository.CacheRepository {
	return &cacheRepository{
		redis:  r,
		logger: r.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.redis.client.Get(ctx, r.redis.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("Cache miss", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.ErrCacheError.Wrap(err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key), zap.Int("bytes", len(val)))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.redis.client.Set(ctx, r.redis.Key(key), value, ttl).Err(); err != nil {
		return apperrors.ErrCacheError.Wrap(err)
	}
	return nil
}

// Delete removes keys in one DEL; no keys is a no-op.
func (r *cacheRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.redis.Key(k)
	}

	n, err := r.redis.client.Del(ctx, prefixed...).Result()
	if err != nil {
		return apperrors.ErrCacheError.Wrap(err)
	}

	r.logger.Debug("Cache keys deleted", zap.Strings("keys", keys), zap.Int64("removed", n))
	return nil
}

func (r *cacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.redis.client.Exists(ctx, r.redis.Key(key)).Result()
	if err != nil {
		return false, apperrors.ErrCacheError.Wrap(err)
	}
	return n > 0, nil
}
