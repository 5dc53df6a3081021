package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/search"
)

const (
	DefaultPageSize = 20
)

// RouteSearchRequest - query-параметры поиска маршрутов
type RouteSearchRequest struct {
	Origin        string `query:"origin" validate:"required"`
	Destination   string `query:"destination" validate:"required"`
	Date          string `query:"date" validate:"required,datetime=2006-01-02"`
	MinPrice      string `query:"min_price" validate:"omitempty,numeric"`
	MaxPrice      string `query:"max_price" validate:"omitempty,numeric"`
	StationIDs    string `query:"station_ids"` // comma separated
	Operators     string `query:"operators"`   // comma separated
	HasWiFi       *bool  `query:"has_wifi"`
	HasAC         *bool  `query:"has_ac"`
	PassengerType string `query:"passenger_type"`
	SortBy        string `query:"sort_by" validate:"omitempty,oneof=departure_time price duration"`
	Ascending     *bool  `query:"ascending"`
	Page          *int   `query:"page"`
	PageSize      *int   `query:"page_size"`
}

// ToCriteria converts the request into domain criteria. Absent paging falls
// back to page 1 and DefaultPageSize; explicit values are passed through as is.
func (r RouteSearchRequest) ToCriteria() (domain.SearchCriteria, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.SearchCriteria{}, err
	}

	stationIDs, err := parseIDList(r.StationIDs)
	if err != nil {
		return domain.SearchCriteria{}, err
	}

	minPrice, err := parsePrice("min_price", r.MinPrice)
	if err != nil {
		return domain.SearchCriteria{}, err
	}
	maxPrice, err := parsePrice("max_price", r.MaxPrice)
	if err != nil {
		return domain.SearchCriteria{}, err
	}

	c := domain.SearchCriteria{
		Origin:        strings.TrimSpace(r.Origin),
		Destination:   strings.TrimSpace(r.Destination),
		Date:          date,
		MinPrice:      minPrice,
		MaxPrice:      maxPrice,
		StationIDs:    stationIDs,
		OperatorNames: parseList(r.Operators),
		HasWiFi:       r.HasWiFi,
		HasAC:         r.HasAC,
		PassengerType: domain.PassengerType(r.PassengerType),
		SortBy:        domain.SortBy(r.SortBy),
		IsAscending:   true,
		PageNumber:    1,
		PageSize:      DefaultPageSize,
	}
	if c.PassengerType == "" {
		c.PassengerType = domain.PassengerAdult
	}
	if c.SortBy == "" {
		c.SortBy = domain.SortByDepartureTime
	}
	if r.Ascending != nil {
		c.IsAscending = *r.Ascending
	}
	if r.Page != nil {
		c.PageNumber = *r.Page
	}
	if r.PageSize != nil {
		c.PageSize = *r.PageSize
	}

	return c, nil
}

func parseList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// parsePrice reads a price bound as written by the client, without a float round trip.
func parsePrice(name, s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, s)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%s must be >= 0", name)
	}
	return &d, nil
}

func parseIDList(s string) ([]int64, error) {
	parts := parseList(s)
	if len(parts) == 0 {
		return nil, nil
	}
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid station id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PaginatedResult - страница результатов с общим количеством
type PaginatedResult[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// RouteSearchRow - вариант поездки в ответе
type RouteSearchRow struct {
	RouteID           int64           `json:"route_id"`
	Origin            string          `json:"origin"`
	Destination       string          `json:"destination"`
	Price             decimal.Decimal `json:"price" swaggertype:"string" example:"1125.5"`
	ReturnTicketPrice decimal.Decimal `json:"return_ticket_price" swaggertype:"string" example:"2025"`
	OperatorName      string          `json:"operator_name"`
	Amenity           AmenityDTO      `json:"amenity"`
	ScheduleID        int64           `json:"schedule_id"`
	ScheduleTimeID    int64           `json:"schedule_time_id"`
	ValidFrom         string          `json:"valid_from"`
	ValidTo           string          `json:"valid_to"`
	DepartureTime     string          `json:"departure_time"`
	ArrivalTime       string          `json:"arrival_time"`
	Duration          string          `json:"duration"`
	DurationMinutes   int             `json:"duration_minutes"`
	IsWeekday         bool            `json:"is_weekday"`
	IsSaturday        bool            `json:"is_saturday"`
	IsSunday          bool            `json:"is_sunday"`
	IsHoliday         bool            `json:"is_holiday"`
	Stops             []StopDTO       `json:"stops"`
}

type AmenityDTO struct {
	SeatCount          int  `json:"seat_count"`
	LuggageCapacity    int  `json:"luggage_capacity"`
	HasWiFi            bool `json:"has_wifi"`
	HasAirConditioning bool `json:"has_air_conditioning"`
	HasPowerOutlets    bool `json:"has_power_outlets"`
	HasRestroom        bool `json:"has_restroom"`
}

type StopDTO struct {
	StationID                int64   `json:"station_id"`
	Name                     string  `json:"name"`
	ArrivalTime              string  `json:"arrival_time"`
	DistanceFromPreviousStop float64 `json:"distance_from_previous_stop"`
}

// ConvertResultRow maps an engine row to its response shape.
func ConvertResultRow(row search.ResultRow) RouteSearchRow {
	duration := row.Duration()
	stops := make([]StopDTO, len(row.Stops))
	for i, s := range row.Stops {
		stops[i] = StopDTO{
			StationID:                s.StationID,
			Name:                     s.Name,
			ArrivalTime:              s.ArrivalTime.String(),
			DistanceFromPreviousStop: s.DistanceFromPreviousStop,
		}
	}

	return RouteSearchRow{
		RouteID:           row.RouteID,
		Origin:            row.Origin,
		Destination:       row.Destination,
		Price:             row.Fare.Price,
		ReturnTicketPrice: row.Fare.ReturnTicketPrice,
		OperatorName:      row.OperatorName,
		Amenity: AmenityDTO{
			SeatCount:          row.Amenity.SeatCount,
			LuggageCapacity:    row.Amenity.LuggageCapacity,
			HasWiFi:            row.Amenity.HasWiFi,
			HasAirConditioning: row.Amenity.HasAirConditioning,
			HasPowerOutlets:    row.Amenity.HasPowerOutlets,
			HasRestroom:        row.Amenity.HasRestroom,
		},
		ScheduleID:      row.ScheduleID,
		ScheduleTimeID:  row.ScheduleTimeID,
		ValidFrom:       row.ValidFrom.Format(domain.DateLayout),
		ValidTo:         row.ValidTo.Format(domain.DateLayout),
		DepartureTime:   row.DepartureTime.String(),
		ArrivalTime:     row.ArrivalTime.String(),
		Duration:        FormatDuration(duration),
		DurationMinutes: int(duration / time.Minute),
		IsWeekday:       row.IsWeekday,
		IsSaturday:      row.IsSaturday,
		IsSunday:        row.IsSunday,
		IsHoliday:       row.IsHoliday,
		Stops:           stops,
	}
}

// FormatDuration renders d as "3h 5m".
func FormatDuration(d time.Duration) string {
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// PassengerTypeDTO - строка тарифа для клиента
type PassengerTypeDTO struct {
	PassengerType string  `json:"passenger_type"`
	Factor        float64 `json:"factor"`
	Description   string  `json:"description,omitempty"`
}
