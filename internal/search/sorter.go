package search

import (
	"cmp"
	"slices"

	"github.com/route-search-service/internal/domain"
)

// Sort orders rows in place by key. Descending order flips the comparison,
// so equal keys keep their input order in both directions.
func Sort(rows []ResultRow, key domain.SortBy, ascending bool) {
	compare := comparator(key)
	slices.SortStableFunc(rows, func(a, b ResultRow) int {
		c := compare(a, b)
		if !ascending {
			return -c
		}
		return c
	})
}

func comparator(key domain.SortBy) func(a, b ResultRow) int {
	switch key {
	case domain.SortByPrice:
		return func(a, b ResultRow) int {
			return a.Fare.Price.Cmp(b.Fare.Price)
		}
	case domain.SortByDuration:
		return func(a, b ResultRow) int {
			return cmp.Compare(a.Duration(), b.Duration())
		}
	default:
		return func(a, b ResultRow) int {
			return compareTime(a.DepartureTime, b.DepartureTime)
		}
	}
}

func compareTime(a, b domain.TimeOfDay) int {
	return cmp.Compare(a, b)
}
