package interfaces

import (
	"context"
	"errors"

	"fuelquota/internal/domain/entities"
)

var (
	// ErrRegistryRecordNotFound means the registry has no record matching the
	// supplied identity triple.
	ErrRegistryRecordNotFound = errors.New("vehicle not found in motor-traffic registry")

	// ErrRegistryUnavailable means the registry could not be reached or
	// answered with a server failure. Onboarding may be retried later.
	ErrRegistryUnavailable = errors.New("motor-traffic registry unavailable")
)

// IRegistryGateway abstracts the external motor-traffic (DMT) registry.
//
// It is a fallible, possibly slow dependency consulted only during vehicle
// onboarding — never on the dispensing path.
type IRegistryGateway interface {
	ValidateVehicle(ctx context.Context, registrationNumber, chassisNumber, engineNumber string) (entities.OwnerRecord, error)
}
