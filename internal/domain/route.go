package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Operator - перевозчик, владеющий маршрутом
type Operator struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Station - остановка/станция
type Station struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	City string `json:"city,omitempty" db:"city"`
}

// Amenity - удобства транспортного средства на маршруте
type Amenity struct {
	SeatCount          int  `json:"seat_count" db:"seat_count"`
	LuggageCapacity    int  `json:"luggage_capacity" db:"luggage_capacity"`
	HasWiFi            bool `json:"has_wifi" db:"has_wifi"`
	HasAirConditioning bool `json:"has_air_conditioning" db:"has_air_conditioning"`
	HasPowerOutlets    bool `json:"has_power_outlets" db:"has_power_outlets"`
	HasRestroom        bool `json:"has_restroom" db:"has_restroom"`
}

// Route - маршрут между двумя пунктами с расписаниями
type Route struct {
	ID                int64           `json:"id" db:"id"`
	Origin            string          `json:"origin" db:"origin"`
	Destination       string          `json:"destination" db:"destination"`
	Price             decimal.Decimal `json:"price" db:"price"`
	ReturnTicketPrice decimal.Decimal `json:"return_ticket_price" db:"return_ticket_price"`
	Operator          *Operator       `json:"operator,omitempty"`
	Amenity           Amenity         `json:"amenity"`
	Schedules         []*Schedule     `json:"schedules"`
}

// OperatorName returns "" when the operator is not loaded.
func (r *Route) OperatorName() string {
	if r.Operator == nil {
		return ""
	}
	return r.Operator.Name
}

// Schedule - период действия расписания с исключениями
type Schedule struct {
	ID            int64           `json:"id" db:"id"`
	RouteID       int64           `json:"route_id" db:"route_id"`
	ValidFrom     time.Time       `json:"valid_from" db:"valid_from"`
	ValidTo       time.Time       `json:"valid_to" db:"valid_to"`
	ExceptionDays []time.Time     `json:"exception_days,omitempty"`
	ScheduleTimes []*ScheduleTime `json:"schedule_times"`
}

// Validate checks the ValidFrom <= ValidTo invariant.
func (s *Schedule) Validate() error {
	if DateOf(s.ValidFrom).After(DateOf(s.ValidTo)) {
		return fmt.Errorf("schedule %d: valid_from %s is after valid_to %s",
			s.ID, s.ValidFrom.Format(DateLayout), s.ValidTo.Format(DateLayout))
	}
	return nil
}

// ScheduleTime - конкретный рейс (время отправления) в рамках расписания
type ScheduleTime struct {
	ID            int64              `json:"id" db:"id"`
	ScheduleID    int64              `json:"schedule_id" db:"schedule_id"`
	DepartureTime TimeOfDay          `json:"departure_time" db:"departure_time"`
	ArrivalTime   TimeOfDay          `json:"arrival_time" db:"arrival_time"`
	IsWeekday     bool               `json:"is_weekday" db:"is_weekday"`
	IsSaturday    bool               `json:"is_saturday" db:"is_saturday"`
	IsSunday      bool               `json:"is_sunday" db:"is_sunday"`
	IsHoliday     bool               `json:"is_holiday" db:"is_holiday"`
	Stations      []*ScheduleStation `json:"stations"`
}

// ScheduleStation - остановка рейса
type ScheduleStation struct {
	ID                       int64     `json:"id" db:"id"`
	ScheduleTimeID           int64     `json:"schedule_time_id" db:"schedule_time_id"`
	Station                  *Station  `json:"station"`
	ArrivalTime              TimeOfDay `json:"arrival_time" db:"arrival_time"`
	DistanceFromPreviousStop float64   `json:"distance_from_previous_stop" db:"distance_from_previous_stop"`
}

// StationID returns 0 when the station is not loaded.
func (ss *ScheduleStation) StationID() int64 {
	if ss.Station == nil {
		return 0
	}
	return ss.Station.ID
}

// Catalogue - набор справочных данных для импорта
type Catalogue struct {
	Operators []*Operator
	Stations  []*Station
	Routes    []*Route
}

// DateOf truncates t to its calendar date (in t's location) at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
