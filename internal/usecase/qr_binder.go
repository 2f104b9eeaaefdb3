package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"strings"

	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase/interfaces"
)

var (
	ErrInvalidQRToken = errors.New("invalid qr token")
	ErrTokenNotFound  = errors.New("qr token not found")
	ErrQRMismatch     = errors.New("qr token does not match claimed vehicle")
	ErrQRAlreadyBound = errors.New("vehicle already bound to a qr token")
)

// IQRBinder binds an opaque, unguessable credential 1:1 to a vehicle and
// authenticates "this physical vehicle" at dispensing time without touching
// the external registry.

type IQRBinder interface {
	Issue(ctx context.Context, vehicleID string) (string, error)
	Resolve(ctx context.Context, token string) (entities.Vehicle, error)
	Verify(ctx context.Context, token, claimedVehicleID string) (entities.Vehicle, error)
}

type QRBinder struct {
	vehicles interfaces.IVehicleRepository
}

var _ IQRBinder = (*QRBinder)(nil)

func NewQRBinder(vehicles interfaces.IVehicleRepository) *QRBinder {
	return &QRBinder{vehicles: vehicles}
}

// Issue generates a fresh credential for a vehicle that has none. Called once,
// at onboarding.
func (b *QRBinder) Issue(ctx context.Context, vehicleID string) (string, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return "", ErrInvalidVehicleID
	}

	v, err := b.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return "", err
	}
	if v.ID == "" {
		return "", ErrVehicleNotFound
	}
	if v.QRToken != "" {
		return "", ErrQRAlreadyBound
	}

	token, err := newQRToken()
	if err != nil {
		log.Printf("[qr][binder] token generation failed vehicle_id=%s err=%v", vehicleID, err)
		return "", err
	}

	if _, err := b.vehicles.BindQRToken(ctx, vehicleID, token); err != nil {
		if errors.Is(err, interfaces.ErrQRTokenBound) {
			return "", ErrQRAlreadyBound
		}
		return "", err
	}
	log.Printf("[qr][binder] token issued vehicle_id=%s", vehicleID)
	return token, nil
}

// Resolve returns the vehicle a token is bound to.
func (b *QRBinder) Resolve(ctx context.Context, token string) (entities.Vehicle, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return entities.Vehicle{}, ErrInvalidQRToken
	}

	v, err := b.vehicles.GetByQRToken(ctx, token)
	if err != nil {
		return entities.Vehicle{}, err
	}
	if v.ID == "" {
		return entities.Vehicle{}, ErrTokenNotFound
	}
	return v, nil
}

// Verify resolves the token and checks it against the vehicle id the station
// terminal claims to be serving. Guards against a valid-but-different token
// presented alongside a mismatched vehicle id.
func (b *QRBinder) Verify(ctx context.Context, token, claimedVehicleID string) (entities.Vehicle, error) {
	v, err := b.Resolve(ctx, token)
	if err != nil {
		return entities.Vehicle{}, err
	}
	if v.ID != strings.TrimSpace(claimedVehicleID) {
		return entities.Vehicle{}, ErrQRMismatch
	}
	return v, nil
}

// newQRToken returns 256 bits from crypto/rand, base64url without padding.
func newQRToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
