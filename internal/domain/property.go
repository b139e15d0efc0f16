package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency     = "USD"
	DefaultPropertyType = "other"
)

type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusSold      PropertyStatus = "sold"
	PropertyStatusRented    PropertyStatus = "rented"
	PropertyStatusReserved  PropertyStatus = "reserved"
)

func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusSold, PropertyStatusRented, PropertyStatusReserved:
		return true
	}
	return false
}

type Property struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Price        decimal.Decimal
	Area         *decimal.Decimal
	PricePerSqm  *decimal.Decimal
	Currency     string
	PropertyType string
	Status       PropertyStatus
	Location     *string
	Bedrooms     *int
	Bathrooms    *int
	Latitude     *float64
	Longitude    *float64
	MapURL       *string
	Images       []string
	Features     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PricePerUnitArea derives price/area using floating-point division. It
// returns nil unless area is present and strictly positive.
func PricePerUnitArea(price decimal.Decimal, area *decimal.Decimal) *decimal.Decimal {
	if area == nil || !area.IsPositive() {
		return nil
	}
	v := decimal.NewFromFloat(price.InexactFloat64() / area.InexactFloat64())
	return &v
}
