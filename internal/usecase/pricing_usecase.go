package usecase

import (
	"github.com/route-search-service/internal/pricing"
	"github.com/route-search-service/internal/usecase/dto"
)

// PricingUseCase отдаёт тариф клиентам
type PricingUseCase struct {
	tariff *pricing.Tariff
}

func NewPricingUseCase(tariff *pricing.Tariff) *PricingUseCase {
	return &PricingUseCase{tariff: tariff}
}

// ListPassengerTypes returns every known passenger type with its factor.
func (uc *PricingUseCase) ListPassengerTypes() []dto.PassengerTypeDTO {
	discounts := uc.tariff.Discounts()
	result := make([]dto.PassengerTypeDTO, len(discounts))
	for i, d := range discounts {
		result[i] = dto.PassengerTypeDTO{
			PassengerType: string(d.PassengerType),
			Factor:        d.Factor,
			Description:   d.Description,
		}
	}
	return result
}
