package entities

import (
	"errors"
	"strings"
)

var ErrUnknownFuelType = errors.New("unknown fuel type")

// FuelType is the single fuel a vehicle is entitled to draw against its quota.

type FuelType string

const (
	FuelTypePetrol   FuelType = "PETROL"
	FuelTypeDiesel   FuelType = "DIESEL"
	FuelTypeKerosene FuelType = "KEROSENE"
)

// ParseFuelType normalizes a wire value into a FuelType.
func ParseFuelType(s string) (FuelType, error) {
	switch FuelType(strings.ToUpper(strings.TrimSpace(s))) {
	case FuelTypePetrol:
		return FuelTypePetrol, nil
	case FuelTypeDiesel:
		return FuelTypeDiesel, nil
	case FuelTypeKerosene:
		return FuelTypeKerosene, nil
	}
	return "", ErrUnknownFuelType
}
