package request

import (
	"strings"

	"fuelquota/internal/domain/entities"
)

// RegisterVehicleRequest is the onboarding payload. The identity triple is
// validated against the motor-traffic registry before anything is persisted.
type RegisterVehicleRequest struct {
	RegistrationNumber string `json:"registration_number" binding:"required"`
	ChassisNumber      string `json:"chassis_number" binding:"required"`
	EngineNumber       string `json:"engine_number" binding:"required"`
	FuelType           string `json:"fuel_type" binding:"required"`
}

func (r RegisterVehicleRequest) ResolveFuelType() (entities.FuelType, error) {
	return entities.ParseFuelType(r.FuelType)
}

func (r RegisterVehicleRequest) ResolveRegistrationNumber() string {
	return strings.ToUpper(strings.TrimSpace(r.RegistrationNumber))
}
