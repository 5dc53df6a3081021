package search

import (
	"time"

	"github.com/route-search-service/internal/domain"
)

// IsCalendarValid reports whether schedule runs on date: date lies inside the
// inclusive validity window and is not one of the exception days.
func IsCalendarValid(schedule *domain.Schedule, date time.Time) bool {
	d := domain.DateOf(date)
	if d.Before(domain.DateOf(schedule.ValidFrom)) || d.After(domain.DateOf(schedule.ValidTo)) {
		return false
	}
	for _, ex := range schedule.ExceptionDays {
		if domain.DateOf(ex).Equal(d) {
			return false
		}
	}
	return true
}

// HolidayCalendar tells which dates are public holidays.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// HolidaySet is a fixed set of holiday dates.
type HolidaySet map[time.Time]struct{}

// NewHolidaySet builds a set from dates; time of day is ignored.
func NewHolidaySet(dates ...time.Time) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		set[domain.DateOf(d)] = struct{}{}
	}
	return set
}

func (s HolidaySet) IsHoliday(date time.Time) bool {
	_, ok := s[domain.DateOf(date)]
	return ok
}

// RunsOn checks the activity flags of st against the day type of date.
// A holiday uses only the holiday flag, whatever the weekday.
func RunsOn(st *domain.ScheduleTime, date time.Time, holidays HolidayCalendar) bool {
	if holidays != nil && holidays.IsHoliday(date) {
		return st.IsHoliday
	}
	switch domain.DateOf(date).Weekday() {
	case time.Saturday:
		return st.IsSaturday
	case time.Sunday:
		return st.IsSunday
	default:
		return st.IsWeekday
	}
}
