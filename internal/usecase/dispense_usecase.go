package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity   = errors.New("invalid dispense quantity")
	ErrInvalidStationID  = errors.New("invalid station id")
	ErrInvalidOperatorID = errors.New("invalid operator id")
	ErrInactiveVehicle   = errors.New("vehicle is deactivated")
	ErrFuelTypeMismatch  = errors.New("requested fuel type does not match vehicle")
)

// DispenseCommand is one station-terminal dispensing request.
type DispenseCommand struct {
	Token            string
	ClaimedVehicleID string
	StationID        string
	OperatorID       string
	FuelType         entities.FuelType
	QuantityLiters   decimal.Decimal
}

// QuotaStatus is the read-only quota view returned to terminals before a
// dispense. The window is normalized for display; nothing is committed.
type QuotaStatus struct {
	VehicleID       string
	FuelType        entities.FuelType
	RemainingLiters decimal.Decimal
	WeekStartDate   time.Time
}

// IDispenseUseCase sequences QR verification, fuel-type compatibility, quota
// reservation and audit recording as one all-or-nothing operation. Any failure
// leaves no partial state behind.

type IDispenseUseCase interface {
	Dispense(ctx context.Context, cmd DispenseCommand) (entities.Transaction, error)
	QuotaByToken(ctx context.Context, token string) (QuotaStatus, error)
}

type DispenseUseCase struct {
	binder IQRBinder
	ledger interfaces.IQuotaLedger
}

var _ IDispenseUseCase = (*DispenseUseCase)(nil)

func NewDispenseUseCase(binder IQRBinder, ledger interfaces.IQuotaLedger) *DispenseUseCase {
	return &DispenseUseCase{binder: binder, ledger: ledger}
}

// Dispense authenticates the vehicle, checks fuel compatibility and asks the
// ledger for an atomic reservation. The audit transaction is committed inside
// the same atomic unit as the quota mutation, so a reservation without a
// record (or vice versa) cannot exist.
func (u *DispenseUseCase) Dispense(ctx context.Context, cmd DispenseCommand) (entities.Transaction, error) {
	station := strings.TrimSpace(cmd.StationID)
	operator := strings.TrimSpace(cmd.OperatorID)
	if station == "" {
		return entities.Transaction{}, ErrInvalidStationID
	}
	if operator == "" {
		return entities.Transaction{}, ErrInvalidOperatorID
	}
	if cmd.QuantityLiters.Sign() <= 0 {
		return entities.Transaction{}, ErrInvalidQuantity
	}
	if _, err := entities.ParseFuelType(string(cmd.FuelType)); err != nil {
		return entities.Transaction{}, err
	}
	log.Printf("[dispense][usecase] start station_id=%s quantity=%s fuel_type=%s", station, cmd.QuantityLiters, cmd.FuelType)

	vehicle, err := u.binder.Verify(ctx, cmd.Token, cmd.ClaimedVehicleID)
	if err != nil {
		log.Printf("[dispense][usecase] identity verification failed station_id=%s err=%v", station, err)
		return entities.Transaction{}, err
	}
	if !vehicle.IsActive {
		log.Printf("[dispense][usecase] inactive vehicle vehicle_id=%s station_id=%s", vehicle.ID, station)
		return entities.Transaction{}, ErrInactiveVehicle
	}

	// Compatibility is checked before any ledger mutation is attempted.
	if vehicle.FuelType != cmd.FuelType {
		log.Printf("[dispense][usecase] fuel type mismatch vehicle_id=%s assigned=%s requested=%s",
			vehicle.ID, vehicle.FuelType, cmd.FuelType)
		return entities.Transaction{}, ErrFuelTypeMismatch
	}

	draft := entities.Transaction{
		ID:             uuid.NewString(),
		VehicleID:      vehicle.ID,
		StationID:      station,
		OperatorID:     operator,
		FuelType:       cmd.FuelType,
		QuantityLiters: cmd.QuantityLiters,
		Timestamp:      time.Now().UTC(),
		Status:         entities.TransactionStatusCommitted,
	}

	committed, err := u.ledger.Reserve(ctx, draft)
	if err != nil {
		log.Printf("[dispense][usecase] reservation failed vehicle_id=%s quantity=%s err=%v",
			vehicle.ID, cmd.QuantityLiters, err)
		return entities.Transaction{}, err
	}

	log.Printf("[dispense][usecase] success transaction_id=%s vehicle_id=%s quota_before=%s quota_after=%s",
		committed.ID, committed.VehicleID, committed.QuotaBefore, committed.QuotaAfter)
	return committed, nil
}

// QuotaByToken returns the remaining quota a token is entitled to. Read-only:
// an elapsed window is rolled over for display but persisted only when a
// dispense follows.
func (u *DispenseUseCase) QuotaByToken(ctx context.Context, token string) (QuotaStatus, error) {
	vehicle, err := u.binder.Resolve(ctx, token)
	if err != nil {
		return QuotaStatus{}, err
	}

	weekStart, used := vehicle.NormalizedWindow(time.Now().UTC())
	return QuotaStatus{
		VehicleID:       vehicle.ID,
		FuelType:        vehicle.FuelType,
		RemainingLiters: vehicle.WeeklyQuotaLiters.Sub(used),
		WeekStartDate:   weekStart,
	}, nil
}
