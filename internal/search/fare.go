package search

import (
	"github.com/shopspring/decimal"

	"github.com/route-search-service/internal/domain"
)

// Fare - цена после применения скидки категории пассажира
type Fare struct {
	Price             decimal.Decimal
	ReturnTicketPrice decimal.Decimal
}

// DiscountedFare applies the passenger discount factor to both prices of route.
// The product is exact, no rounding is applied.
func DiscountedFare(route *domain.Route, factor decimal.Decimal) Fare {
	return Fare{
		Price:             route.Price.Mul(factor),
		ReturnTicketPrice: route.ReturnTicketPrice.Mul(factor),
	}
}
