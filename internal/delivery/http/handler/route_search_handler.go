package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/pkg/errors"
	"github.com/route-search-service/internal/pkg/utils"
	"github.com/route-search-service/internal/pkg/validator"
	"github.com/route-search-service/internal/usecase/dto"
)

// RouteSearcher - поиск маршрутов (реализуется usecase.RouteSearchUseCase)
type RouteSearcher interface {
	SearchRoutes(ctx context.Context, c domain.SearchCriteria) (*dto.PaginatedResult[dto.RouteSearchRow], error)
}

// PassengerTypeLister - список тарифов (реализуется usecase.PricingUseCase)
type PassengerTypeLister interface {
	ListPassengerTypes() []dto.PassengerTypeDTO
}

// RouteSearchHandler - обработчик поиска маршрутов
type RouteSearchHandler struct {
	searchUC  RouteSearcher
	pricingUC PassengerTypeLister
	logger    *zap.Logger
}

// NewRouteSearchHandler - создание нового RouteSearchHandler
func NewRouteSearchHandler(searchUC RouteSearcher, pricingUC PassengerTypeLister, logger *zap.Logger) *RouteSearchHandler {
	return &RouteSearchHandler{
		searchUC:  searchUC,
		pricingUC: pricingUC,
		logger:    logger,
	}
}

// SearchRoutes godoc
// @Summary Поиск маршрутов на дату
// @Description Возвращает варианты поездки (маршрут + расписание + время отправления), действующие на указанную дату, с ценой по типу пассажира. Сортировка и пагинация применяются ко всему набору.
// @Tags Routes
// @Produce json
// @Param origin query string true "Пункт отправления"
// @Param destination query string true "Пункт назначения"
// @Param date query string true "Дата поездки (YYYY-MM-DD)"
// @Param min_price query number false "Минимальная цена со скидкой"
// @Param max_price query number false "Максимальная цена со скидкой"
// @Param station_ids query string false "ID остановок через запятую"
// @Param operators query string false "Перевозчики через запятую"
// @Param has_wifi query bool false "Наличие WiFi"
// @Param has_ac query bool false "Наличие кондиционера"
// @Param passenger_type query string false "Тип пассажира" default(adult)
// @Param sort_by query string false "Ключ сортировки" Enums(departure_time, price, duration) default(departure_time)
// @Param ascending query bool false "По возрастанию" default(true)
// @Param page query int false "Номер страницы" default(1)
// @Param page_size query int false "Размер страницы" default(20)
// @Success 200 {object} utils.SuccessResponse{data=dto.PaginatedResult[dto.RouteSearchRow]}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 499 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/routes/search [get]
func (h *RouteSearchHandler) SearchRoutes(c *fiber.Ctx) error {
	var req dto.RouteSearchRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"error": err.Error(),
		}))
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(validator.FieldErrors(err)))
	}

	criteria, err := req.ToCriteria()
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"error": err.Error(),
		}))
	}

	result, err := h.searchUC.SearchRoutes(c.UserContext(), criteria)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.TotalCount,
		Page:  result.PageNumber,
		Limit: result.PageSize,
	})
}

// ListPassengerTypes godoc
// @Summary Типы пассажиров и коэффициенты скидок
// @Tags Routes
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.PassengerTypeDTO}
// @Router /api/v1/passenger-types [get]
func (h *RouteSearchHandler) ListPassengerTypes(c *fiber.Ctx) error {
	types := h.pricingUC.ListPassengerTypes()
	return utils.SendSuccess(c, types, &utils.Meta{Total: len(types)})
}
