package interfaces

import (
	"context"

	"fuelquota/internal/domain/entities"
)

// IVehicleRepository abstracts persistence for Vehicle.
//
// Missing vehicles are signalled with a zero-value Vehicle (ID == ""), not an
// error; callers decide whether absence is exceptional.

type IVehicleRepository interface {
	Create(ctx context.Context, v entities.Vehicle) (entities.Vehicle, error)
	GetByID(ctx context.Context, id string) (entities.Vehicle, error)
	GetByQRToken(ctx context.Context, token string) (entities.Vehicle, error)
	GetByRegistrationNumber(ctx context.Context, registrationNumber string) (entities.Vehicle, error)

	// BindQRToken attaches a credential to a vehicle that has none yet.
	// Fails with ErrQRTokenBound if the vehicle already carries a token.
	BindQRToken(ctx context.Context, vehicleID, token string) (entities.Vehicle, error)

	// SetActive flips the soft-disable flag.
	SetActive(ctx context.Context, vehicleID string, active bool) (entities.Vehicle, error)
}
