package search

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/route-search-service/internal/domain"
)

// Stop - остановка в строке результата
type Stop struct {
	StationID                int64
	Name                     string
	ArrivalTime              domain.TimeOfDay
	DistanceFromPreviousStop float64
}

// ResultRow - один вариант поездки (маршрут + расписание + время отправления)
type ResultRow struct {
	RouteID        int64
	Origin         string
	Destination    string
	Fare           Fare
	OperatorName   string
	Amenity        domain.Amenity
	ScheduleID     int64
	ScheduleTimeID int64
	ValidFrom      time.Time
	ValidTo        time.Time
	DepartureTime  domain.TimeOfDay
	ArrivalTime    domain.TimeOfDay
	IsWeekday      bool
	IsSaturday     bool
	IsSunday       bool
	IsHoliday      bool
	Stops          []Stop
}

// Duration is the travel time; overnight trips wrap past midnight.
func (r ResultRow) Duration() time.Duration {
	return r.DepartureTime.Elapsed(r.ArrivalTime)
}

// Project expands every accepted (route, schedule, schedule time) triple into a row.
// Rows come out in catalogue order, which the stable sort keeps for ties.
func Project(routes []*domain.Route, chain *FilterChain, factor decimal.Decimal) []ResultRow {
	var rows []ResultRow
	for _, route := range routes {
		fare := DiscountedFare(route, factor)
		if !chain.AcceptRoute(route, fare) {
			continue
		}
		for _, schedule := range route.Schedules {
			if !chain.AcceptSchedule(schedule) {
				continue
			}
			for _, st := range schedule.ScheduleTimes {
				if !chain.AcceptTrip(st) {
					continue
				}
				rows = append(rows, newResultRow(route, fare, schedule, st))
			}
		}
	}
	return rows
}

func newResultRow(route *domain.Route, fare Fare, schedule *domain.Schedule, st *domain.ScheduleTime) ResultRow {
	return ResultRow{
		RouteID:        route.ID,
		Origin:         route.Origin,
		Destination:    route.Destination,
		Fare:           fare,
		OperatorName:   route.OperatorName(),
		Amenity:        route.Amenity,
		ScheduleID:     schedule.ID,
		ScheduleTimeID: st.ID,
		ValidFrom:      schedule.ValidFrom,
		ValidTo:        schedule.ValidTo,
		DepartureTime:  st.DepartureTime,
		ArrivalTime:    st.ArrivalTime,
		IsWeekday:      st.IsWeekday,
		IsSaturday:     st.IsSaturday,
		IsSunday:       st.IsSunday,
		IsHoliday:      st.IsHoliday,
		Stops:          projectStops(st.Stations),
	}
}

// projectStops copies the stops ordered by arrival; the catalogue slice is shared and left untouched.
func projectStops(stations []*domain.ScheduleStation) []Stop {
	stops := make([]Stop, 0, len(stations))
	for _, ss := range stations {
		stop := Stop{
			StationID:                ss.StationID(),
			ArrivalTime:              ss.ArrivalTime,
			DistanceFromPreviousStop: ss.DistanceFromPreviousStop,
		}
		if ss.Station != nil {
			stop.Name = ss.Station.Name
		}
		stops = append(stops, stop)
	}
	slices.SortStableFunc(stops, func(a, b Stop) int {
		return compareTime(a.ArrivalTime, b.ArrivalTime)
	})
	return stops
}
