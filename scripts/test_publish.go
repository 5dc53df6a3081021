// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/repository/cache"
)

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address")
	keyPrefix := flag.String("prefix", "route-search:", "Cache key prefix (REDIS_KEY_PREFIX)")
	origin := flag.String("origin", "Belgrade", "Origin of the changed pair")
	destination := flag.String("destination", "Nis", "Destination of the changed pair")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	// Проверка подключения
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Кладём заглушку в кеш, чтобы увидеть инвалидацию
	key := *keyPrefix + cache.RoutesCacheKey(*origin, *destination)
	if err := client.Set(ctx, key, "[]", 10*time.Minute).Err(); err != nil {
		log.Fatalf("Failed to seed cache key: %v", err)
	}

	event := domain.NewCatalogueChangedEvent(*origin, *destination, time.Now())
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: domain.StreamCatalogueChanged,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("✅ Event published successfully!\n")
	fmt.Printf("   Stream: %s\n", domain.StreamCatalogueChanged)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Pair: %s -> %s\n", event.Origin, event.Destination)

	fmt.Printf("\n⏳ Waiting for %s to be invalidated...\n", key)

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("❌ Timeout waiting for invalidation")
			return
		case <-ticker.C:
			n, err := client.Exists(ctx, key).Result()
			if err != nil {
				continue
			}
			if n == 0 {
				fmt.Println("✅ Cache entry invalidated")
				return
			}
		}
	}
}
