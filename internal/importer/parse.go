package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spkg/bom"

	"github.com/route-search-service/internal/domain"
)

// Файлы каталога
const (
	FileOperators        = "operators.csv"
	FileStations         = "stations.csv"
	FileRoutes           = "routes.csv"
	FileSchedules        = "schedules.csv"
	FileExceptionDays    = "exception_days.csv"
	FileScheduleTimes    = "schedule_times.csv"
	FileScheduleStations = "schedule_stations.csv"
)

var requiredFiles = []string{FileOperators, FileStations, FileRoutes, FileSchedules, FileScheduleTimes}

var optionalFiles = []string{FileExceptionDays, FileScheduleStations}

func init() {
	// LazyCSVReader survives sloppy quoting; the BOM reader strips unicode BOMs.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		return gocsv.LazyCSVReader(bom.NewReader(in))
	})
}

type OperatorCSV struct {
	OperatorID int64  `csv:"operator_id"`
	Name       string `csv:"name"`
}

type StationCSV struct {
	StationID int64  `csv:"station_id"`
	Name      string `csv:"name"`
	City      string `csv:"city"`
}

type RouteCSV struct {
	RouteID            int64  `csv:"route_id"`
	Origin             string `csv:"origin"`
	Destination        string `csv:"destination"`
	Price              string `csv:"price"`
	ReturnTicketPrice  string `csv:"return_ticket_price"`
	OperatorID         int64  `csv:"operator_id"`
	SeatCount          int    `csv:"seat_count"`
	LuggageCapacity    int    `csv:"luggage_capacity"`
	HasWiFi            int8   `csv:"has_wifi"`
	HasAirConditioning int8   `csv:"has_air_conditioning"`
	HasPowerOutlets    int8   `csv:"has_power_outlets"`
	HasRestroom        int8   `csv:"has_restroom"`
}

type ScheduleCSV struct {
	ScheduleID int64  `csv:"schedule_id"`
	RouteID    int64  `csv:"route_id"`
	ValidFrom  string `csv:"valid_from"`
	ValidTo    string `csv:"valid_to"`
}

type ExceptionDayCSV struct {
	ScheduleID int64  `csv:"schedule_id"`
	Date       string `csv:"date"`
}

type ScheduleTimeCSV struct {
	ScheduleTimeID int64  `csv:"schedule_time_id"`
	ScheduleID     int64  `csv:"schedule_id"`
	DepartureTime  string `csv:"departure_time"`
	ArrivalTime    string `csv:"arrival_time"`
	IsWeekday      int8   `csv:"is_weekday"`
	IsSaturday     int8   `csv:"is_saturday"`
	IsSunday       int8   `csv:"is_sunday"`
	IsHoliday      int8   `csv:"is_holiday"`
}

type ScheduleStationCSV struct {
	ScheduleStationID        int64   `csv:"schedule_station_id"`
	ScheduleTimeID           int64   `csv:"schedule_time_id"`
	StationID                int64   `csv:"station_id"`
	ArrivalTime              string  `csv:"arrival_time"`
	DistanceFromPreviousStop float64 `csv:"distance_from_previous_stop"`
}

// ParseDir opens the catalogue files in dir and parses them.
// exception_days.csv and schedule_stations.csv may be absent.
func ParseDir(dir string) (*domain.Catalogue, error) {
	files := map[string]io.Reader{}
	var opened []*os.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, name := range append(append([]string{}, requiredFiles...), optionalFiles...) {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		opened = append(opened, f)
		files[name] = f
	}

	return ParseCatalogue(files)
}

// ParseCatalogue builds a catalogue from CSV readers keyed by file name.
// References between files are checked, so a parsed catalogue is
// internally consistent.
func ParseCatalogue(files map[string]io.Reader) (*domain.Catalogue, error) {
	for _, required := range requiredFiles {
		if files[required] == nil {
			return nil, fmt.Errorf("missing %s", required)
		}
	}

	operators, err := parseOperators(files[FileOperators])
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileOperators, err)
	}

	stations, err := parseStations(files[FileStations])
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileStations, err)
	}

	routes, err := parseRoutes(files[FileRoutes], operators)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileRoutes, err)
	}

	schedules, err := parseSchedules(files[FileSchedules], routes)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileSchedules, err)
	}

	if files[FileExceptionDays] != nil {
		if err := parseExceptionDays(files[FileExceptionDays], schedules); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", FileExceptionDays, err)
		}
	}

	times, err := parseScheduleTimes(files[FileScheduleTimes], schedules)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileScheduleTimes, err)
	}

	if files[FileScheduleStations] != nil {
		if err := parseScheduleStations(files[FileScheduleStations], times, stations); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", FileScheduleStations, err)
		}
	}

	catalogue := &domain.Catalogue{}
	for _, o := range operators {
		catalogue.Operators = append(catalogue.Operators, o)
	}
	for _, s := range stations {
		catalogue.Stations = append(catalogue.Stations, s)
	}
	for _, r := range routes {
		catalogue.Routes = append(catalogue.Routes, r)
	}

	sort.Slice(catalogue.Operators, func(i, j int) bool { return catalogue.Operators[i].ID < catalogue.Operators[j].ID })
	sort.Slice(catalogue.Stations, func(i, j int) bool { return catalogue.Stations[i].ID < catalogue.Stations[j].ID })
	sort.Slice(catalogue.Routes, func(i, j int) bool { return catalogue.Routes[i].ID < catalogue.Routes[j].ID })

	return catalogue, nil
}

func parseOperators(data io.Reader) (map[int64]*domain.Operator, error) {
	rows := []*OperatorCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling csv: %w", err)
	}

	operators := make(map[int64]*domain.Operator, len(rows))
	for _, row := range rows {
		if _, found := operators[row.OperatorID]; found {
			return nil, fmt.Errorf("repeated operator_id '%d'", row.OperatorID)
		}
		if row.Name == "" {
			return nil, fmt.Errorf("empty name for operator '%d'", row.OperatorID)
		}
		operators[row.OperatorID] = &domain.Operator{ID: row.OperatorID, Name: row.Name}
	}
	return operators, nil
}

func parseStations(data io.Reader) (map[int64]*domain.Station, error) {
	rows := []*StationCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling csv: %w", err)
	}

	stations := make(map[int64]*domain.Station, len(rows))
	for _, row := range rows {
		if _, found := stations[row.StationID]; found {
			return nil, fmt.Errorf("repeated station_id '%d'", row.StationID)
		}
		if row.Name == "" {
			return nil, fmt.Errorf("empty name for station '%d'", row.StationID)
		}
		stations[row.StationID] = &domain.Station{ID: row.StationID, Name: row.Name, City: row.City}
	}
	return stations, nil
}

func parseRoutes(data io.Reader, operators map[int64]*domain.Operator) (map[int64]*domain.Route, error) {
	rows := []*RouteCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling csv: %w", err)
	}

	routes := make(map[int64]*domain.Route, len(rows))
	for _, row := range rows {
		if _, found := routes[row.RouteID]; found {
			return nil, fmt.Errorf("repeated route_id '%d'", row.RouteID)
		}
		if row.Origin == "" || row.Destination == "" {
			return nil, fmt.Errorf("route '%d' has empty origin or destination", row.RouteID)
		}
		price, err := parsePrice(row.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid price for route '%d': %w", row.RouteID, err)
		}
		returnPrice, err := parsePrice(row.ReturnTicketPrice)
		if err != nil {
			return nil, fmt.Errorf("invalid return_ticket_price for route '%d': %w", row.RouteID, err)
		}
		if price.IsNegative() || returnPrice.IsNegative() {
			return nil, fmt.Errorf("route '%d' has negative price", row.RouteID)
		}
		operator, found := operators[row.OperatorID]
		if !found {
			return nil, fmt.Errorf("route '%d' references unknown operator_id '%d'", row.RouteID, row.OperatorID)
		}

		flags := map[string]int8{
			"has_wifi":             row.HasWiFi,
			"has_air_conditioning": row.HasAirConditioning,
			"has_power_outlets":    row.HasPowerOutlets,
			"has_restroom":         row.HasRestroom,
		}
		for column, v := range flags {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("invalid %s value '%d' for route '%d'", column, v, row.RouteID)
			}
		}

		routes[row.RouteID] = &domain.Route{
			ID:                row.RouteID,
			Origin:            row.Origin,
			Destination:       row.Destination,
			Price:             price,
			ReturnTicketPrice: returnPrice,
			Operator:          operator,
			Amenity: domain.Amenity{
				SeatCount:          row.SeatCount,
				LuggageCapacity:    row.LuggageCapacity,
				HasWiFi:            row.HasWiFi == 1,
				HasAirConditioning: row.HasAirConditioning == 1,
				HasPowerOutlets:    row.HasPowerOutlets == 1,
				HasRestroom:        row.HasRestroom == 1,
			},
		}
	}
	return routes, nil
}

// parsePrice keeps the exact decimal value written in the file.
func parsePrice(value string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(value))
}

func parseSchedules(data io.Reader, routes map[int64]*domain.Route) (map[int64]*domain.Schedule, error) {
	rows := []*ScheduleCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling csv: %w", err)
	}

	schedules := make(map[int64]*domain.Schedule, len(rows))
	for _, row := range rows {
		if _, found := schedules[row.ScheduleID]; found {
			return nil, fmt.Errorf("repeated schedule_id '%d'", row.ScheduleID)
		}
		route, found := routes[row.RouteID]
		if !found {
			return nil, fmt.Errorf("schedule '%d' references unknown route_id '%d'", row.ScheduleID, row.RouteID)
		}

		validFrom, err := domain.ParseDate(row.ValidFrom)
		if err != nil {
			return nil, fmt.Errorf("schedule '%d' valid_from: %w", row.ScheduleID, err)
		}
		validTo, err := domain.ParseDate(row.ValidTo)
		if err != nil {
			return nil, fmt.Errorf("schedule '%d' valid_to: %w", row.ScheduleID, err)
		}

		schedule := &domain.Schedule{
			ID:        row.ScheduleID,
			RouteID:   row.RouteID,
			ValidFrom: validFrom,
			ValidTo:   validTo,
		}
		if err := schedule.Validate(); err != nil {
			return nil, err
		}

		schedules[row.ScheduleID] = schedule
		route.Schedules = append(route.Schedules, schedule)
	}
	return schedules, nil
}

func parseExceptionDays(data io.Reader, schedules map[int64]*domain.Schedule) error {
	rows := []*ExceptionDayCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling csv: %w", err)
	}

	seen := map[int64]map[string]bool{}
	for _, row := range rows {
		schedule, found := schedules[row.ScheduleID]
		if !found {
			return fmt.Errorf("exception day references unknown schedule_id '%d'", row.ScheduleID)
		}
		date, err := domain.ParseDate(row.Date)
		if err != nil {
			return fmt.Errorf("schedule '%d' exception day: %w", row.ScheduleID, err)
		}
		if seen[row.ScheduleID] == nil {
			seen[row.ScheduleID] = map[string]bool{}
		}
		if seen[row.ScheduleID][row.Date] {
			continue
		}
		seen[row.ScheduleID][row.Date] = true
		schedule.ExceptionDays = append(schedule.ExceptionDays, date)
	}
	return nil
}

func parseScheduleTimes(data io.Reader, schedules map[int64]*domain.Schedule) (map[int64]*domain.ScheduleTime, error) {
	rows := []*ScheduleTimeCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("unmarshaling csv: %w", err)
	}

	times := make(map[int64]*domain.ScheduleTime, len(rows))
	for _, row := range rows {
		if _, found := times[row.ScheduleTimeID]; found {
			return nil, fmt.Errorf("repeated schedule_time_id '%d'", row.ScheduleTimeID)
		}
		schedule, found := schedules[row.ScheduleID]
		if !found {
			return nil, fmt.Errorf("schedule time '%d' references unknown schedule_id '%d'", row.ScheduleTimeID, row.ScheduleID)
		}

		departure, err := domain.ParseTimeOfDay(row.DepartureTime)
		if err != nil {
			return nil, fmt.Errorf("schedule time '%d' departure_time: %w", row.ScheduleTimeID, err)
		}
		arrival, err := domain.ParseTimeOfDay(row.ArrivalTime)
		if err != nil {
			return nil, fmt.Errorf("schedule time '%d' arrival_time: %w", row.ScheduleTimeID, err)
		}

		for column, v := range map[string]int8{
			"is_weekday":  row.IsWeekday,
			"is_saturday": row.IsSaturday,
			"is_sunday":   row.IsSunday,
			"is_holiday":  row.IsHoliday,
		} {
			if v != 0 && v != 1 {
				return nil, fmt.Errorf("invalid %s value '%d' for schedule time '%d'", column, v, row.ScheduleTimeID)
			}
		}

		st := &domain.ScheduleTime{
			ID:            row.ScheduleTimeID,
			ScheduleID:    row.ScheduleID,
			DepartureTime: departure,
			ArrivalTime:   arrival,
			IsWeekday:     row.IsWeekday == 1,
			IsSaturday:    row.IsSaturday == 1,
			IsSunday:      row.IsSunday == 1,
			IsHoliday:     row.IsHoliday == 1,
		}
		times[row.ScheduleTimeID] = st
		schedule.ScheduleTimes = append(schedule.ScheduleTimes, st)
	}
	return times, nil
}

func parseScheduleStations(data io.Reader, times map[int64]*domain.ScheduleTime, stations map[int64]*domain.Station) error {
	rows := []*ScheduleStationCSV{}
	if err := gocsv.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("unmarshaling csv: %w", err)
	}

	seen := map[int64]bool{}
	for _, row := range rows {
		if seen[row.ScheduleStationID] {
			return fmt.Errorf("repeated schedule_station_id '%d'", row.ScheduleStationID)
		}
		seen[row.ScheduleStationID] = true

		st, found := times[row.ScheduleTimeID]
		if !found {
			return fmt.Errorf("stop '%d' references unknown schedule_time_id '%d'", row.ScheduleStationID, row.ScheduleTimeID)
		}
		station, found := stations[row.StationID]
		if !found {
			return fmt.Errorf("stop '%d' references unknown station_id '%d'", row.ScheduleStationID, row.StationID)
		}
		arrival, err := domain.ParseTimeOfDay(row.ArrivalTime)
		if err != nil {
			return fmt.Errorf("stop '%d' arrival_time: %w", row.ScheduleStationID, err)
		}
		if row.DistanceFromPreviousStop < 0 {
			return fmt.Errorf("stop '%d' has negative distance_from_previous_stop", row.ScheduleStationID)
		}

		st.Stations = append(st.Stations, &domain.ScheduleStation{
			ID:                       row.ScheduleStationID,
			ScheduleTimeID:           row.ScheduleTimeID,
			Station:                  station,
			ArrivalTime:              arrival,
			DistanceFromPreviousStop: row.DistanceFromPreviousStop,
		})
	}
	return nil
}
