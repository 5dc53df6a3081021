package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/domain/repository"
)

type routeRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewRouteRepository создает новый экземпляр route repository
func NewRouteRepository(db *DB) repository.RouteRepository {
	return &routeRepository{
		db:     db,
		logger: db.logger,
	}
}

type routeRow struct {
	ID                 int64          `db:"id"`
	Origin             string         `db:"origin"`
	Destination        string         `db:"destination"`
	Price              decimal.Decimal `db:"price"`
	ReturnTicketPrice  decimal.Decimal `db:"return_ticket_price"`
	OperatorID         sql.NullInt64  `db:"operator_id"`
	OperatorName       sql.NullString `db:"operator_name"`
	SeatCount          int            `db:"seat_count"`
	LuggageCapacity    int            `db:"luggage_capacity"`
	HasWiFi            bool           `db:"has_wifi"`
	HasAirConditioning bool           `db:"has_air_conditioning"`
	HasPowerOutlets    bool           `db:"has_power_outlets"`
	HasRestroom        bool           `db:"has_restroom"`
}

type exceptionRow struct {
	ScheduleID    int64     `db:"schedule_id"`
	ExceptionDate time.Time `db:"exception_date"`
}

type scheduleStationRow struct {
	ID                       int64            `db:"id"`
	ScheduleTimeID           int64            `db:"schedule_time_id"`
	StationID                int64            `db:"station_id"`
	StationName              string           `db:"station_name"`
	StationCity              string           `db:"station_city"`
	ArrivalTime              domain.TimeOfDay `db:"arrival_time"`
	DistanceFromPreviousStop float64          `db:"distance_from_previous_stop"`
}

// GetRoutes загружает маршруты между пунктами со всеми расписаниями, рейсами и остановками
func (r *routeRepository) GetRoutes(ctx context.Context, origin, destination string) ([]*domain.Route, error) {
	query := `
		SELECT
			r.id, r.origin, r.destination,
			r.price, r.return_ticket_price,
			r.operator_id, o.name AS operator_name,
			r.seat_count, r.luggage_capacity,
			r.has_wifi, r.has_air_conditioning, r.has_power_outlets, r.has_restroom
		FROM routes r
		LEFT JOIN operators o ON o.id = r.operator_id
		WHERE r.origin = $1 AND r.destination = $2
		ORDER BY r.id
	`

	var rows []routeRow
	if err := r.db.SelectContext(ctx, &rows, query, origin, destination); err != nil {
		r.logger.Error("failed to select routes",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Error(err))
		return nil, fmt.Errorf("select routes: %w", err)
	}

	routes := make([]*domain.Route, 0, len(rows))
	byID := make(map[int64]*domain.Route, len(rows))
	routeIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		route := row.toDomain()
		routes = append(routes, route)
		byID[route.ID] = route
		routeIDs = append(routeIDs, route.ID)
	}

	if len(routeIDs) == 0 {
		return routes, nil
	}

	if err := r.loadSchedules(ctx, byID, routeIDs); err != nil {
		return nil, err
	}

	return routes, nil
}

func (r *routeRepository) loadSchedules(ctx context.Context, routes map[int64]*domain.Route, routeIDs []int64) error {
	var schedules []*domain.Schedule
	err := r.db.SelectContext(ctx, &schedules, `
		SELECT id, route_id, valid_from, valid_to
		FROM schedules
		WHERE route_id = ANY($1)
		ORDER BY route_id, id
	`, pq.Array(routeIDs))
	if err != nil {
		return fmt.Errorf("select schedules: %w", err)
	}
	if len(schedules) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.Schedule, len(schedules))
	scheduleIDs := make([]int64, 0, len(schedules))
	for _, s := range schedules {
		byID[s.ID] = s
		scheduleIDs = append(scheduleIDs, s.ID)
		if route, ok := routes[s.RouteID]; ok {
			route.Schedules = append(route.Schedules, s)
		}
	}

	var exceptions []exceptionRow
	err = r.db.SelectContext(ctx, &exceptions, `
		SELECT schedule_id, exception_date
		FROM schedule_exception_days
		WHERE schedule_id = ANY($1)
		ORDER BY schedule_id, exception_date
	`, pq.Array(scheduleIDs))
	if err != nil {
		return fmt.Errorf("select exception days: %w", err)
	}
	for _, e := range exceptions {
		if s, ok := byID[e.ScheduleID]; ok {
			s.ExceptionDays = append(s.ExceptionDays, domain.DateOf(e.ExceptionDate))
		}
	}

	return r.loadScheduleTimes(ctx, byID, scheduleIDs)
}

func (r *routeRepository) loadScheduleTimes(ctx context.Context, schedules map[int64]*domain.Schedule, scheduleIDs []int64) error {
	// TIME приводится к тексту, чтобы не зависеть от представления драйвера
	var times []*domain.ScheduleTime
	err := r.db.SelectContext(ctx, &times, `
		SELECT
			id, schedule_id,
			to_char(departure_time, 'HH24:MI:SS') AS departure_time,
			to_char(arrival_time, 'HH24:MI:SS') AS arrival_time,
			is_weekday, is_saturday, is_sunday, is_holiday
		FROM schedule_times
		WHERE schedule_id = ANY($1)
		ORDER BY schedule_id, id
	`, pq.Array(scheduleIDs))
	if err != nil {
		return fmt.Errorf("select schedule times: %w", err)
	}
	if len(times) == 0 {
		return nil
	}

	byID := make(map[int64]*domain.ScheduleTime, len(times))
	timeIDs := make([]int64, 0, len(times))
	for _, st := range times {
		byID[st.ID] = st
		timeIDs = append(timeIDs, st.ID)
		if s, ok := schedules[st.ScheduleID]; ok {
			s.ScheduleTimes = append(s.ScheduleTimes, st)
		}
	}

	var stops []scheduleStationRow
	err = r.db.SelectContext(ctx, &stops, `
		SELECT
			ss.id, ss.schedule_time_id, ss.station_id,
			s.name AS station_name, s.city AS station_city,
			to_char(ss.arrival_time, 'HH24:MI:SS') AS arrival_time,
			ss.distance_from_previous_stop
		FROM schedule_stations ss
		JOIN stations s ON s.id = ss.station_id
		WHERE ss.schedule_time_id = ANY($1)
		ORDER BY ss.schedule_time_id, ss.id
	`, pq.Array(timeIDs))
	if err != nil {
		return fmt.Errorf("select schedule stations: %w", err)
	}
	for _, row := range stops {
		if st, ok := byID[row.ScheduleTimeID]; ok {
			st.Stations = append(st.Stations, &domain.ScheduleStation{
				ID:             row.ID,
				ScheduleTimeID: row.ScheduleTimeID,
				Station: &domain.Station{
					ID:   row.StationID,
					Name: row.StationName,
					City: row.StationCity,
				},
				ArrivalTime:              row.ArrivalTime,
				DistanceFromPreviousStop: row.DistanceFromPreviousStop,
			})
		}
	}

	return nil
}

func (row routeRow) toDomain() *domain.Route {
	route := &domain.Route{
		ID:                row.ID,
		Origin:            row.Origin,
		Destination:       row.Destination,
		Price:             row.Price,
		ReturnTicketPrice: row.ReturnTicketPrice,
		Amenity: domain.Amenity{
			SeatCount:          row.SeatCount,
			LuggageCapacity:    row.LuggageCapacity,
			HasWiFi:            row.HasWiFi,
			HasAirConditioning: row.HasAirConditioning,
			HasPowerOutlets:    row.HasPowerOutlets,
			HasRestroom:        row.HasRestroom,
		},
	}
	if row.OperatorID.Valid {
		route.Operator = &domain.Operator{
			ID:   row.OperatorID.Int64,
			Name: row.OperatorName.String,
		}
	}
	return route
}
