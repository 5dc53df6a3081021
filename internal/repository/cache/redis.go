package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/config"
)

// Redis - общий клиент для кеша каталога и стримов
type Redis struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewRedis connects and pings the server.
func NewRedis(cfg *config.Config, logger *zap.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  cfg.Catalogue.ReadTimeout,
		WriteTimeout: cfg.Catalogue.ReadTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.GetRedisAddr(), err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.GetRedisAddr()),
		zap.Int("db", cfg.Redis.DB),
		zap.Int("pool_size", cfg.Redis.PoolSize),
		zap.String("key_prefix", cfg.Redis.KeyPrefix),
	)

	return &Redis{
		client:    client,
		keyPrefix: cfg.Redis.KeyPrefix,
		logger:    logger,
	}, nil
}

// NewRedisFromClient оборачивает готовый клиент (тесты, скрипты)
func NewRedisFromClient(client *redis.Client, keyPrefix string, logger *zap.Logger) *Redis {
	return &Redis{client: client, keyPrefix: keyPrefix, logger: logger}
}

func (r *Redis) Close() error {
	r.logger.Info("Closing Redis connection")
	return r.client.Close()
}

func (r *Redis) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Client() *redis.Client {
	return r.client
}

// Key applies the deployment prefix to key.
func (r *Redis) Key(key string) string {
	return r.keyPrefix + key
}
