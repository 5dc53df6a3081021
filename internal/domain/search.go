package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SortBy - ключ сортировки результатов поиска
type SortBy string

const (
	SortByDepartureTime SortBy = "departure_time"
	SortByPrice         SortBy = "price"
	SortByDuration      SortBy = "duration"
)

// PassengerType - категория пассажира для расчёта скидки
type PassengerType string

const (
	PassengerAdult   PassengerType = "adult"
	PassengerChild   PassengerType = "child"
	PassengerStudent PassengerType = "student"
	PassengerSenior  PassengerType = "senior"
	PassengerInfant  PassengerType = "infant"
)

// SearchCriteria - критерии поиска маршрутов.
// Nil pointers and empty slices mean "no constraint".
type SearchCriteria struct {
	Origin        string
	Destination   string
	Date          time.Time
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	StationIDs    []int64
	OperatorNames []string
	HasWiFi       *bool
	HasAC         *bool
	PassengerType PassengerType
	SortBy        SortBy
	IsAscending   bool
	PageNumber    int
	PageSize      int
}
