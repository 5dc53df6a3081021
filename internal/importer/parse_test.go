package importer

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/route-search-service/internal/domain"
)

const (
	operatorsCSV = `
operator_id,name
1,Lasta
2,Nis Ekspres`

	stationsCSV = `
station_id,name,city
10,Autobuska stanica Beograd,Belgrade
11,Jagodina,Jagodina
12,Autobuska stanica Nis,Nis`

	routesCSV = `
route_id,origin,destination,price,return_ticket_price,operator_id,seat_count,luggage_capacity,has_wifi,has_air_conditioning,has_power_outlets,has_restroom
100,Belgrade,Nis,1500,2700,1,50,20,1,1,0,1
101,Belgrade,Nis,12.35,20.10,2,40,10,0,1,0,0
102,Nis,Belgrade,1500,2700,1,50,20,1,1,0,1`

	schedulesCSV = `
schedule_id,route_id,valid_from,valid_to
1000,100,2024-01-01,2024-12-31
1001,101,2024-01-01,2024-12-31`

	exceptionDaysCSV = `
schedule_id,date
1000,2024-12-25
1000,2024-12-25`

	scheduleTimesCSV = `
schedule_time_id,schedule_id,departure_time,arrival_time,is_weekday,is_saturday,is_sunday,is_holiday
5000,1000,08:00,11:30,1,1,0,0
5001,1001,23:15:00,02:45:00,1,1,1,1`

	scheduleStationsCSV = `
schedule_station_id,schedule_time_id,station_id,arrival_time,distance_from_previous_stop
9000,5000,10,08:00,0
9001,5000,11,09:40,136.5
9002,5000,12,11:30,100`
)

func validFiles() map[string]string {
	return map[string]string{
		FileOperators:        operatorsCSV,
		FileStations:         stationsCSV,
		FileRoutes:           routesCSV,
		FileSchedules:        schedulesCSV,
		FileExceptionDays:    exceptionDaysCSV,
		FileScheduleTimes:    scheduleTimesCSV,
		FileScheduleStations: scheduleStationsCSV,
	}
}

func readers(files map[string]string) map[string]io.Reader {
	out := make(map[string]io.Reader, len(files))
	for name, content := range files {
		out[name] = strings.NewReader(content)
	}
	return out
}

func TestParseCatalogue(t *testing.T) {
	catalogue, err := ParseCatalogue(readers(validFiles()))
	require.NoError(t, err)

	require.Len(t, catalogue.Operators, 2)
	require.Len(t, catalogue.Stations, 3)
	require.Len(t, catalogue.Routes, 3)

	route := catalogue.Routes[0]
	assert.Equal(t, int64(100), route.ID)
	assert.Equal(t, "Belgrade", route.Origin)
	assert.Equal(t, "Lasta", route.OperatorName())
	assert.Equal(t, "1500", route.Price.String())
	assert.Equal(t, "12.35", catalogue.Routes[1].Price.String())
	assert.Equal(t, "20.1", catalogue.Routes[1].ReturnTicketPrice.String())
	assert.Equal(t, domain.Amenity{
		SeatCount:          50,
		LuggageCapacity:    20,
		HasWiFi:            true,
		HasAirConditioning: true,
		HasRestroom:        true,
	}, route.Amenity)

	require.Len(t, route.Schedules, 1)
	schedule := route.Schedules[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), schedule.ValidFrom)
	assert.Equal(t, []time.Time{time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)}, schedule.ExceptionDays)

	require.Len(t, schedule.ScheduleTimes, 1)
	st := schedule.ScheduleTimes[0]
	assert.Equal(t, domain.NewTimeOfDay(8, 0), st.DepartureTime)
	assert.Equal(t, domain.NewTimeOfDay(11, 30), st.ArrivalTime)
	assert.True(t, st.IsWeekday)
	assert.True(t, st.IsSaturday)
	assert.False(t, st.IsSunday)

	require.Len(t, st.Stations, 3)
	assert.Equal(t, int64(11), st.Stations[1].StationID())
	assert.Equal(t, 136.5, st.Stations[1].DistanceFromPreviousStop)

	overnight := catalogue.Routes[1].Schedules[0].ScheduleTimes[0]
	assert.Equal(t, domain.NewTimeOfDay(23, 15), overnight.DepartureTime)
	assert.Equal(t, domain.NewTimeOfDay(2, 45), overnight.ArrivalTime)
	assert.Empty(t, overnight.Stations)

	// a route without schedules is still imported
	assert.Empty(t, catalogue.Routes[2].Schedules)
}

func TestParseCatalogueOptionalFiles(t *testing.T) {
	files := validFiles()
	delete(files, FileExceptionDays)
	delete(files, FileScheduleStations)

	catalogue, err := ParseCatalogue(readers(files))
	require.NoError(t, err)
	assert.Empty(t, catalogue.Routes[0].Schedules[0].ExceptionDays)
	assert.Empty(t, catalogue.Routes[0].Schedules[0].ScheduleTimes[0].Stations)
}

func TestParseCatalogueErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		file    string
		content string
		errMsg  string
	}{
		{
			"repeated operator",
			FileOperators,
			`
operator_id,name
1,Lasta
1,Lasta`,
			"repeated operator_id",
		},
		{
			"unknown operator",
			FileRoutes,
			`
route_id,origin,destination,price,return_ticket_price,operator_id
100,Belgrade,Nis,1500,2700,7`,
			"unknown operator_id",
		},
		{
			"invalid amenity flag",
			FileRoutes,
			`
route_id,origin,destination,price,return_ticket_price,operator_id,has_wifi
100,Belgrade,Nis,1500,2700,1,2`,
			"invalid has_wifi value",
		},
		{
			"negative price",
			FileRoutes,
			`
route_id,origin,destination,price,return_ticket_price,operator_id
100,Belgrade,Nis,-1,2700,1`,
			"negative price",
		},
		{
			"malformed price",
			FileRoutes,
			`
route_id,origin,destination,price,return_ticket_price,operator_id
100,Belgrade,Nis,12.3.5,2700,1`,
			"invalid price",
		},
		{
			"empty return price",
			FileRoutes,
			`
route_id,origin,destination,price,return_ticket_price,operator_id
100,Belgrade,Nis,1500,,1`,
			"invalid return_ticket_price",
		},
		{
			"valid_from after valid_to",
			FileSchedules,
			`
schedule_id,route_id,valid_from,valid_to
1000,100,2024-12-31,2024-01-01`,
			"is after valid_to",
		},
		{
			"malformed date",
			FileSchedules,
			`
schedule_id,route_id,valid_from,valid_to
1000,100,2024/01/01,2024-12-31`,
			"valid_from",
		},
		{
			"malformed departure time",
			FileScheduleTimes,
			`
schedule_time_id,schedule_id,departure_time,arrival_time
5000,1000,8am,11:30`,
			"departure_time",
		},
		{
			"hour out of range",
			FileScheduleTimes,
			`
schedule_time_id,schedule_id,departure_time,arrival_time
5000,1000,25:00,11:30`,
			"departure_time",
		},
		{
			"invalid day flag",
			FileScheduleTimes,
			`
schedule_time_id,schedule_id,departure_time,arrival_time,is_sunday
5000,1000,08:00,11:30,3`,
			"invalid is_sunday value",
		},
		{
			"unknown schedule for time",
			FileScheduleTimes,
			`
schedule_time_id,schedule_id,departure_time,arrival_time
5000,4242,08:00,11:30`,
			"unknown schedule_id",
		},
		{
			"unknown station",
			FileScheduleStations,
			`
schedule_station_id,schedule_time_id,station_id,arrival_time
9000,5000,99,08:00`,
			"unknown station_id",
		},
		{
			"unknown schedule for exception",
			FileExceptionDays,
			`
schedule_id,date
4242,2024-12-25`,
			"unknown schedule_id",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			files := validFiles()
			files[tc.file] = tc.content

			_, err := ParseCatalogue(readers(files))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.file)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestParseCatalogueMissingFile(t *testing.T) {
	files := validFiles()
	delete(files, FileScheduleTimes)

	_, err := ParseCatalogue(readers(files))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing schedule_times.csv")
}

func TestParseDir(t *testing.T) {
	dir := t.TempDir()
	for name, content := range validFiles() {
		if name == FileScheduleStations {
			continue
		}
		// BOM in front of the header must be tolerated
		if name == FileOperators {
			content = "\uFEFF" + strings.TrimPrefix(content, "\n")
		}
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	catalogue, err := ParseDir(dir)
	require.NoError(t, err)
	require.Len(t, catalogue.Operators, 2)
	assert.Equal(t, int64(1), catalogue.Operators[0].ID)
	assert.Equal(t, "Lasta", catalogue.Operators[0].Name)
}

func TestParseDirMissingRequired(t *testing.T) {
	_, err := ParseDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing operators.csv")
}
