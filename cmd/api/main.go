package main

// @title Route Search Service API
// @version 1.0.0
// @description Сервис поиска междугородних маршрутов по каталогу перевозчиков.
// @description
// @description Основные возможности:
// @description - Поиск вариантов поездки между двумя пунктами на дату
// @description - Фильтры по цене, остановкам, перевозчикам и удобствам
// @description - Цена с учётом типа пассажира, сортировка и пагинация

// @contact.name API Support
// @contact.email support@route-search-service.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/route-search-service/docs"
	"github.com/route-search-service/internal/config"
	httpDelivery "github.com/route-search-service/internal/delivery/http"
	"github.com/route-search-service/internal/delivery/http/handler"
	"github.com/route-search-service/internal/pkg/logger"
	"github.com/route-search-service/internal/pricing"
	"github.com/route-search-service/internal/repository/cache"
	"github.com/route-search-service/internal/repository/postgres"
	"github.com/route-search-service/internal/search"
	"github.com/route-search-service/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "route-search-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Route Search Service")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("timezone", cfg.Search.Location.String()),
		zap.Bool("enforce_day_flags", cfg.Search.EnforceDayFlags),
		zap.Int("holidays", len(cfg.Search.Holidays)),
	)

	// 3. Connect to PostgreSQL
	db, err := postgres.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	log.Info("PostgreSQL connected")

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connected")

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		log.Fatal("PostgreSQL health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 6. Tariff
	tariff, err := pricing.LoadTariff(cfg.Pricing.TariffFile, log)
	if err != nil {
		log.Fatal("Failed to load tariff", zap.Error(err))
	}

	// 7. Initialize Repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	routeRepo := cache.NewCachedRouteRepository(
		postgres.NewRouteRepository(db),
		cacheRepo,
		cfg.Catalogue.CacheTTL,
		log,
	)
	log.Info("Repositories initialized")

	// 8. Initialize Use Cases
	engine := search.NewEngine(search.Options{
		Location:        cfg.Search.Location,
		Holidays:        search.NewHolidaySet(cfg.Search.Holidays...),
		EnforceDayFlags: cfg.Search.EnforceDayFlags,
	})

	routeSearchUC := usecase.NewRouteSearchUseCase(
		routeRepo,
		tariff,
		engine,
		log,
		cfg.Catalogue.ReadTimeout,
		cfg.Search.MaxPageSize,
	)
	pricingUC := usecase.NewPricingUseCase(tariff)
	log.Info("Use cases initialized")

	// 9. Initialize HTTP Handlers
	routeSearchHandler := handler.NewRouteSearchHandler(routeSearchUC, pricingUC, log)
	healthHandler := handler.NewHealthHandler(map[string]handler.HealthChecker{
		"postgres": db,
		"redis":    redisClient,
	}, log)

	// 10. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, routeSearchHandler, healthHandler)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		log.Error("Failed to close PostgreSQL", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		log.Error("Failed to close Redis", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
