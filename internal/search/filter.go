package search

import (
	"time"

	"github.com/route-search-service/internal/domain"
)

// RoutePredicate decides on a whole route given its discounted fare.
type RoutePredicate func(route *domain.Route, fare Fare) bool

// SchedulePredicate decides on a schedule of an accepted route.
type SchedulePredicate func(schedule *domain.Schedule) bool

// TripPredicate decides on a single departure of an accepted schedule.
type TripPredicate func(st *domain.ScheduleTime) bool

// FilterEnv carries what the filters need besides the criteria.
type FilterEnv struct {
	// Now is the current instant in the service time zone.
	Now             time.Time
	Holidays        HolidayCalendar
	EnforceDayFlags bool
}

// FilterChain AND-combines the predicates enabled by a SearchCriteria.
// Optional criteria that are unset add no predicate.
type FilterChain struct {
	routes    []RoutePredicate
	schedules []SchedulePredicate
	trips     []TripPredicate
}

// NewFilterChain builds the chain for criteria.
func NewFilterChain(c domain.SearchCriteria, env FilterEnv) *FilterChain {
	fc := &FilterChain{}

	origin, destination := c.Origin, c.Destination
	fc.routes = append(fc.routes, func(r *domain.Route, _ Fare) bool {
		return r.Origin == origin && r.Destination == destination
	})

	if c.MinPrice != nil {
		minPrice := *c.MinPrice
		fc.routes = append(fc.routes, func(_ *domain.Route, f Fare) bool {
			return f.Price.GreaterThanOrEqual(minPrice)
		})
	}
	if c.MaxPrice != nil {
		maxPrice := *c.MaxPrice
		fc.routes = append(fc.routes, func(_ *domain.Route, f Fare) bool {
			return f.Price.LessThanOrEqual(maxPrice)
		})
	}

	if len(c.OperatorNames) > 0 {
		operators := make(map[string]struct{}, len(c.OperatorNames))
		for _, name := range c.OperatorNames {
			operators[name] = struct{}{}
		}
		fc.routes = append(fc.routes, func(r *domain.Route, _ Fare) bool {
			_, ok := operators[r.OperatorName()]
			return ok
		})
	}

	if c.HasWiFi != nil {
		want := *c.HasWiFi
		fc.routes = append(fc.routes, func(r *domain.Route, _ Fare) bool {
			return r.Amenity.HasWiFi == want
		})
	}
	if c.HasAC != nil {
		want := *c.HasAC
		fc.routes = append(fc.routes, func(r *domain.Route, _ Fare) bool {
			return r.Amenity.HasAirConditioning == want
		})
	}

	date := domain.DateOf(c.Date)
	fc.schedules = append(fc.schedules, func(s *domain.Schedule) bool {
		return IsCalendarValid(s, date)
	})

	if env.EnforceDayFlags {
		holidays := env.Holidays
		fc.trips = append(fc.trips, func(st *domain.ScheduleTime) bool {
			return RunsOn(st, date, holidays)
		})
	}

	if len(c.StationIDs) > 0 {
		stations := make(map[int64]struct{}, len(c.StationIDs))
		for _, id := range c.StationIDs {
			stations[id] = struct{}{}
		}
		fc.trips = append(fc.trips, func(st *domain.ScheduleTime) bool {
			for _, ss := range st.Stations {
				if _, ok := stations[ss.StationID()]; ok {
					return true
				}
			}
			return false
		})
	}

	if !env.Now.IsZero() && domain.DateOf(env.Now).Equal(date) {
		cutoff := domain.TimeOfDayOf(env.Now)
		fc.trips = append(fc.trips, func(st *domain.ScheduleTime) bool {
			return st.DepartureTime > cutoff
		})
	}

	return fc
}

func (fc *FilterChain) AcceptRoute(r *domain.Route, fare Fare) bool {
	for _, p := range fc.routes {
		if !p(r, fare) {
			return false
		}
	}
	return true
}

func (fc *FilterChain) AcceptSchedule(s *domain.Schedule) bool {
	for _, p := range fc.schedules {
		if !p(s) {
			return false
		}
	}
	return true
}

func (fc *FilterChain) AcceptTrip(st *domain.ScheduleTime) bool {
	for _, p := range fc.trips {
		if !p(st) {
			return false
		}
	}
	return true
}
