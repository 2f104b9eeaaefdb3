package request

import (
	"errors"
	"strings"

	"fuelquota/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantityValue = errors.New("invalid quantity value")
)

// DispenseRequest is the payload a station terminal sends after scanning a
// vehicle's QR credential. `quantity_liters` is what was (or is about to be)
// pumped; it must be strictly positive.
type DispenseRequest struct {
	Token          string  `json:"token" binding:"required"`
	VehicleID      string  `json:"vehicle_id" binding:"required"`
	StationID      string  `json:"station_id" binding:"required"`
	OperatorID     string  `json:"operator_id" binding:"required"`
	FuelType       string  `json:"fuel_type" binding:"required"`
	QuantityLiters float64 `json:"quantity_liters" binding:"required"`
}

func (r DispenseRequest) ResolveFuelType() (entities.FuelType, error) {
	return entities.ParseFuelType(r.FuelType)
}

func (r DispenseRequest) ResolveQuantity() (decimal.Decimal, error) {
	q := decimal.NewFromFloat(r.QuantityLiters)
	if q.Sign() <= 0 {
		return decimal.Decimal{}, ErrInvalidQuantityValue
	}
	return q, nil
}

func (r DispenseRequest) ResolveToken() string {
	return strings.TrimSpace(r.Token)
}
