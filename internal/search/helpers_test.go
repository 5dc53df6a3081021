package search_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/route-search-service/internal/domain"
)

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func tod(s string) domain.TimeOfDay {
	t, err := domain.ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

var fullFare = decimal.NewFromInt(1)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptrDec(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func ptrBool(v bool) *bool { return &v }

// everyDay returns a departure active on every kind of day.
func everyDay(id int64, departure, arrival string, stations ...*domain.ScheduleStation) *domain.ScheduleTime {
	return &domain.ScheduleTime{
		ID:            id,
		DepartureTime: tod(departure),
		ArrivalTime:   tod(arrival),
		IsWeekday:     true,
		IsSaturday:    true,
		IsSunday:      true,
		IsHoliday:     true,
		Stations:      stations,
	}
}

func stop(id, stationID int64, name, arrival string) *domain.ScheduleStation {
	return &domain.ScheduleStation{
		ID:                       id,
		Station:                  &domain.Station{ID: stationID, Name: name},
		ArrivalTime:              tod(arrival),
		DistanceFromPreviousStop: 10,
	}
}

func yearSchedule(id int64, times ...*domain.ScheduleTime) *domain.Schedule {
	return &domain.Schedule{
		ID:            id,
		ValidFrom:     date("2024-01-01"),
		ValidTo:       date("2024-12-31"),
		ScheduleTimes: times,
	}
}

func route(id int64, operator string, price int64, schedules ...*domain.Schedule) *domain.Route {
	return &domain.Route{
		ID:                id,
		Origin:            "Belgrade",
		Destination:       "Novi Sad",
		Price:             decimal.NewFromInt(price),
		ReturnTicketPrice: decimal.NewFromInt(price * 2),
		Operator:          &domain.Operator{ID: id, Name: operator},
		Amenity:           domain.Amenity{SeatCount: 50, HasWiFi: true},
		Schedules:         schedules,
	}
}

func baseCriteria(d string) domain.SearchCriteria {
	return domain.SearchCriteria{
		Origin:        "Belgrade",
		Destination:   "Novi Sad",
		Date:          date(d),
		PassengerType: domain.PassengerAdult,
		SortBy:        domain.SortByDepartureTime,
		IsAscending:   true,
		PageNumber:    1,
		PageSize:      100,
	}
}
