package usecase

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/domain/repository"
	"github.com/route-search-service/internal/pkg/errors"
	"github.com/route-search-service/internal/search"
	"github.com/route-search-service/internal/usecase/dto"
)

// RouteSearchUseCase - use case поиска маршрутов
type RouteSearchUseCase struct {
	routeRepo   repository.RouteRepository
	pricing     repository.PricingAuthority
	engine      *search.Engine
	logger      *zap.Logger
	readTimeout time.Duration
	maxPageSize int
}

// NewRouteSearchUseCase - создание нового RouteSearchUseCase.
// readTimeout <= 0 disables the catalogue read deadline. Larger page sizes are
// clamped to maxPageSize; maxPageSize <= 0 disables the clamp.
func NewRouteSearchUseCase(
	routeRepo repository.RouteRepository,
	pricing repository.PricingAuthority,
	engine *search.Engine,
	logger *zap.Logger,
	readTimeout time.Duration,
	maxPageSize int,
) *RouteSearchUseCase {
	return &RouteSearchUseCase{
		routeRepo:   routeRepo,
		pricing:     pricing,
		engine:      engine,
		logger:      logger,
		readTimeout: readTimeout,
		maxPageSize: maxPageSize,
	}
}

// SearchRoutes - поиск вариантов поездки по критериям
func (uc *RouteSearchUseCase) SearchRoutes(ctx context.Context, c domain.SearchCriteria) (*dto.PaginatedResult[dto.RouteSearchRow], error) {
	start := time.Now()

	if err := uc.validate(c); err != nil {
		return nil, err
	}
	if uc.maxPageSize > 0 && c.PageSize > uc.maxPageSize {
		uc.logger.Debug("Page size clamped",
			zap.Int("requested", c.PageSize),
			zap.Int("max", uc.maxPageSize))
		c.PageSize = uc.maxPageSize
	}

	factor, err := uc.pricing.GetDiscountFactor(c.PassengerType)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnknownPassengerType) {
			return nil, errors.ErrInvalidCriteria.Wrap(err).WithDetails(map[string]interface{}{
				"passenger_type": string(c.PassengerType),
			})
		}
		uc.logger.Error("Failed to resolve discount factor",
			zap.String("passenger_type", string(c.PassengerType)),
			zap.Error(err))
		return nil, errors.ErrInternalServer.Wrap(err)
	}

	routes, err := uc.readCatalogue(ctx, c.Origin, c.Destination)
	if err != nil {
		return nil, err
	}

	res, err := uc.engine.Run(ctx, routes, c, factor)
	if err != nil {
		return nil, errors.ErrRequestCancelled.Wrap(err)
	}

	items := make([]dto.RouteSearchRow, len(res.Rows))
	for i, row := range res.Rows {
		items[i] = dto.ConvertResultRow(row)
	}

	uc.logger.Info("Route search completed",
		zap.String("origin", c.Origin),
		zap.String("destination", c.Destination),
		zap.String("date", c.Date.Format(domain.DateLayout)),
		zap.Int("routes", len(routes)),
		zap.Int("total", res.TotalCount),
		zap.Int("page", c.PageNumber),
		zap.Duration("took", time.Since(start)))

	return &dto.PaginatedResult[dto.RouteSearchRow]{
		Items:      items,
		PageNumber: c.PageNumber,
		PageSize:   c.PageSize,
		TotalCount: res.TotalCount,
	}, nil
}

// readCatalogue maps read failures: a cancelled caller is REQUEST_CANCELLED,
// anything else (including our own deadline) is CATALOGUE_UNAVAILABLE.
func (uc *RouteSearchUseCase) readCatalogue(ctx context.Context, origin, destination string) ([]*domain.Route, error) {
	readCtx := ctx
	if uc.readTimeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(ctx, uc.readTimeout)
		defer cancel()
	}

	routes, err := uc.routeRepo.GetRoutes(readCtx, origin, destination)
	if ctxErr := ctx.Err(); ctxErr != nil {
		uc.logger.Debug("Route search cancelled by caller", zap.Error(ctxErr))
		return nil, errors.ErrRequestCancelled.Wrap(ctxErr)
	}
	if err != nil {
		uc.logger.Error("Failed to read route catalogue",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Error(err))
		return nil, errors.ErrCatalogueUnavailable.Wrap(err)
	}
	return routes, nil
}

func (uc *RouteSearchUseCase) validate(c domain.SearchCriteria) error {
	details := map[string]interface{}{}
	if c.Origin == "" {
		details["origin"] = "required"
	}
	if c.Destination == "" {
		details["destination"] = "required"
	}
	if c.Date.IsZero() {
		details["date"] = "required"
	}
	if c.PageNumber < 1 {
		details["page"] = "must be >= 1"
	}
	if c.PageSize < 1 {
		details["page_size"] = "must be >= 1"
	}
	switch c.SortBy {
	case "", domain.SortByDepartureTime, domain.SortByPrice, domain.SortByDuration:
	default:
		details["sort_by"] = "unknown sort key"
	}
	if len(details) > 0 {
		return errors.ErrInvalidCriteria.WithDetails(details)
	}
	return nil
}
