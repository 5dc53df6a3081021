package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const day = 24 * time.Hour

// TimeOfDay - время суток как смещение от полуночи
type TimeOfDay time.Duration

// NewTimeOfDay creates a TimeOfDay from hours and minutes.
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// TimeOfDayOf returns the wall-clock time of t in t's location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()))
}

// ParseTimeOfDay accepts "15:04" and "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	layout := "15:04:05"
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDayOf(t), nil
}

func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t)
}

// String formats as zero-padded 24-hour HH:MM.
func (t TimeOfDay) String() string {
	d := time.Duration(t) % day
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

func (t TimeOfDay) clock() string {
	d := time.Duration(t) % day
	return fmt.Sprintf("%02d:%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute), int(d%time.Minute/time.Second))
}

// MarshalText keeps seconds so cached catalogue data round-trips exactly.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.clock()), nil
}

func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parsed, err := ParseTimeOfDay(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Scan implements sql.Scanner for postgres TIME columns.
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case string:
		return t.UnmarshalText([]byte(v))
	case []byte:
		return t.UnmarshalText(v)
	case time.Time:
		*t = TimeOfDayOf(v)
		return nil
	case int64:
		// microseconds since midnight
		*t = TimeOfDay(time.Duration(v) * time.Microsecond)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into TimeOfDay", src)
	}
}

func (t TimeOfDay) Value() (driver.Value, error) {
	return t.clock(), nil
}

// Elapsed returns the travel time from t to arrival. Arrivals earlier than
// the departure are treated as next-day arrivals.
func (t TimeOfDay) Elapsed(arrival TimeOfDay) time.Duration {
	d := time.Duration(arrival-t) % day
	if d < 0 {
		d += day
	}
	return d
}
