package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/domain/repository"
)

const routesKeyPrefix = "catalogue:routes:"

// RoutesCacheKey is the cache key of the routes between origin and destination.
func RoutesCacheKey(origin, destination string) string {
	return routesKeyPrefix + url.QueryEscape(origin) + ":" + url.QueryEscape(destination)
}

// CachedRouteRepository - read-through кеш каталога поверх RouteRepository.
// Ошибки кеша не ломают чтение: запрос уходит в источник.
type CachedRouteRepository struct {
	source repository.RouteRepository
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedRouteRepository(
	source repository.RouteRepository,
	cache repository.CacheRepository,
	ttl time.Duration,
	logger *zap.Logger,
) *CachedRouteRepository {
	return &CachedRouteRepository{
		source: source,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedRouteRepository) GetRoutes(ctx context.Context, origin, destination string) ([]*domain.Route, error) {
	key := RoutesCacheKey(origin, destination)

	data, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("Catalogue cache read failed, falling back to source",
			zap.String("key", key), zap.Error(err))
	} else if data != nil {
		var routes []*domain.Route
		if err := json.Unmarshal(data, &routes); err == nil {
			return routes, nil
		}
		r.logger.Warn("Corrupted catalogue cache entry", zap.String("key", key))
	}

	routes, err := r.source.GetRoutes(ctx, origin, destination)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(routes)
	if err != nil {
		r.logger.Warn("Failed to encode routes for cache", zap.Error(err))
		return routes, nil
	}
	if err := r.cache.Set(ctx, key, encoded, r.ttl); err != nil {
		r.logger.Warn("Catalogue cache write failed", zap.String("key", key), zap.Error(err))
	}

	return routes, nil
}

// Invalidate drops the cached routes of a pair.
func (r *CachedRouteRepository) Invalidate(ctx context.Context, origin, destination string) error {
	return NewRouteCacheInvalidator(r.cache).Invalidate(ctx, origin, destination)
}

// RouteCacheInvalidator сбрасывает кеш маршрутов без доступа к источнику
type RouteCacheInvalidator struct {
	cache repository.CacheRepository
}

func NewRouteCacheInvalidator(cache repository.CacheRepository) *RouteCacheInvalidator {
	return &RouteCacheInvalidator{cache: cache}
}

func (i *RouteCacheInvalidator) Invalidate(ctx context.Context, origin, destination string) error {
	return i.cache.Delete(ctx, RoutesCacheKey(origin, destination))
}
