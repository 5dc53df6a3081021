// Package pricing resolves passenger discount factors from a tariff table.
package pricing

import (
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/route-search-service/internal/domain"
	"github.com/route-search-service/internal/pkg/errors"
	"github.com/route-search-service/internal/pkg/validator"
)

// Discount - строка тарифа: тип пассажира и множитель цены
type Discount struct {
	PassengerType domain.PassengerType `yaml:"passenger_type" validate:"required"`
	Factor        float64              `yaml:"factor" validate:"gte=0,lte=1"`
	Description   string               `yaml:"description"`
}

type tariffFile struct {
	Discounts []Discount `yaml:"discounts" validate:"required,min=1,dive"`
}

// Tariff maps passenger types to discount factors. It is read-only after
// construction and safe for concurrent use.
type Tariff struct {
	discounts map[domain.PassengerType]Discount
	factors   map[domain.PassengerType]decimal.Decimal
}

// DefaultTariff is used when no tariff file is configured.
func DefaultTariff() *Tariff {
	t, _ := NewTariff([]Discount{
		{PassengerType: domain.PassengerAdult, Factor: 1.0, Description: "Full fare"},
		{PassengerType: domain.PassengerChild, Factor: 0.5, Description: "Children under 12"},
		{PassengerType: domain.PassengerStudent, Factor: 0.75, Description: "Students with a valid card"},
		{PassengerType: domain.PassengerSenior, Factor: 0.8, Description: "Passengers over 65"},
		{PassengerType: domain.PassengerInfant, Factor: 0.0, Description: "Infants without a seat"},
	})
	return t
}

func NewTariff(discounts []Discount) (*Tariff, error) {
	t := &Tariff{
		discounts: make(map[domain.PassengerType]Discount, len(discounts)),
		factors:   make(map[domain.PassengerType]decimal.Decimal, len(discounts)),
	}
	for _, d := range discounts {
		if err := validator.Validate(d); err != nil {
			return nil, fmt.Errorf("invalid discount for %q: %w", d.PassengerType, err)
		}
		if _, dup := t.discounts[d.PassengerType]; dup {
			return nil, fmt.Errorf("duplicate passenger type %q", d.PassengerType)
		}
		t.discounts[d.PassengerType] = d
		// NewFromFloat keeps the shortest decimal form: 0.8 stays 0.8.
		t.factors[d.PassengerType] = decimal.NewFromFloat(d.Factor)
	}
	return t, nil
}

// LoadTariff reads a YAML tariff file. An empty path yields DefaultTariff.
func LoadTariff(path string, logger *zap.Logger) (*Tariff, error) {
	if path == "" {
		return DefaultTariff(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tariff file: %w", err)
	}

	var file tariffFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse tariff file: %w", err)
	}
	if err := validator.Validate(file); err != nil {
		return nil, fmt.Errorf("invalid tariff file: %w", err)
	}

	t, err := NewTariff(file.Discounts)
	if err != nil {
		return nil, err
	}

	logger.Info("Tariff loaded",
		zap.String("path", path),
		zap.Int("passenger_types", len(t.discounts)))
	return t, nil
}

// GetDiscountFactor возвращает множитель цены для типа пассажира
func (t *Tariff) GetDiscountFactor(pt domain.PassengerType) (decimal.Decimal, error) {
	factor, ok := t.factors[pt]
	if !ok {
		return decimal.Zero, errors.ErrUnknownPassengerType.WithDetails(map[string]interface{}{
			"passenger_type": string(pt),
		})
	}
	return factor, nil
}

// Discounts returns all rows ordered by passenger type.
func (t *Tariff) Discounts() []Discount {
	result := make([]Discount, 0, len(t.discounts))
	for _, d := range t.discounts {
		result = append(result, d)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PassengerType < result[j].PassengerType
	})
	return result
}
