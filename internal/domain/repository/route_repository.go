package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/route-search-service/internal/domain"
)

// RouteRepository - источник каталога маршрутов
type RouteRepository interface {
	// GetRoutes returns every route between origin and destination with
	// schedules, schedule times and stops fully loaded. Routes are ordered by ID.
	GetRoutes(ctx context.Context, origin, destination string) ([]*domain.Route, error)
}

// CatalogueWriter заменяет или дополняет каталог одной транзакцией
type CatalogueWriter interface {
	ImportCatalogue(ctx context.Context, catalogue *domain.Catalogue) error
}

// PricingAuthority - источник коэффициентов скидок
type PricingAuthority interface {
	GetDiscountFactor(pt domain.PassengerType) (decimal.Decimal, error)
}
