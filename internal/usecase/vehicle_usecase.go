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
	ErrVehicleNotFound          = errors.New("vehicle not found")
	ErrVehicleAlreadyRegistered = errors.New("vehicle already registered")
	ErrInvalidVehicleID         = errors.New("invalid vehicle id")
	ErrInvalidVehicleIdentity   = errors.New("registration, chassis and engine numbers are required")
)

// RegisterVehicleCommand is the onboarding input. The identity triple is
// validated against the external motor-traffic registry before anything is
// persisted.
type RegisterVehicleCommand struct {
	RegistrationNumber string
	ChassisNumber      string
	EngineNumber       string
	FuelType           entities.FuelType
}

// IVehicleUseCase exposes vehicle lifecycle operations for administrative
// tooling. Dispensing never goes through here.

type IVehicleUseCase interface {
	RegisterVehicle(ctx context.Context, cmd RegisterVehicleCommand) (entities.Vehicle, error)
	GetByID(ctx context.Context, id string) (entities.Vehicle, error)
	Activate(ctx context.Context, id string) (entities.Vehicle, error)
	Deactivate(ctx context.Context, id string) (entities.Vehicle, error)
}

type VehicleUseCase struct {
	repo     interfaces.IVehicleRepository
	registry interfaces.IRegistryGateway
	binder   IQRBinder
	quotas   QuotaPolicy
}

var _ IVehicleUseCase = (*VehicleUseCase)(nil)

func NewVehicleUseCase(repo interfaces.IVehicleRepository, registry interfaces.IRegistryGateway, binder IQRBinder, quotas QuotaPolicy) *VehicleUseCase {
	return &VehicleUseCase{repo: repo, registry: registry, binder: binder, quotas: quotas}
}

// RegisterVehicle onboards a vehicle: registry validation, quota assignment,
// first window anchored at the current calendar week, QR credential issuance.
func (u *VehicleUseCase) RegisterVehicle(ctx context.Context, cmd RegisterVehicleCommand) (entities.Vehicle, error) {
	reg := strings.TrimSpace(cmd.RegistrationNumber)
	chassis := strings.TrimSpace(cmd.ChassisNumber)
	engine := strings.TrimSpace(cmd.EngineNumber)
	if reg == "" || chassis == "" || engine == "" {
		return entities.Vehicle{}, ErrInvalidVehicleIdentity
	}
	if _, err := entities.ParseFuelType(string(cmd.FuelType)); err != nil {
		return entities.Vehicle{}, err
	}
	log.Printf("[vehicle][usecase] register start registration_number=%s", reg)

	// Enforce: one quota-bearing vehicle per registration number.
	if existing, err := u.repo.GetByRegistrationNumber(ctx, reg); err != nil {
		return entities.Vehicle{}, err
	} else if existing.ID != "" {
		log.Printf("[vehicle][usecase] register duplicate registration_number=%s", reg)
		return entities.Vehicle{}, ErrVehicleAlreadyRegistered
	}

	if u.registry == nil {
		log.Printf("[vehicle][usecase] registry gateway not configured registration_number=%s", reg)
		return entities.Vehicle{}, errors.New("registry gateway not configured")
	}
	record, err := u.registry.ValidateVehicle(ctx, reg, chassis, engine)
	if err != nil {
		log.Printf("[vehicle][usecase] registry validation failed registration_number=%s err=%v", reg, err)
		return entities.Vehicle{}, err
	}

	now := time.Now().UTC()
	v := entities.Vehicle{
		ID:                 uuid.NewString(),
		RegistrationNumber: reg,
		ChassisNumber:      chassis,
		EngineNumber:       engine,
		FuelType:           cmd.FuelType,
		WeeklyQuotaLiters:  u.quotas.WeeklyQuotaLiters(cmd.FuelType),
		CurrentWeekUsed:    decimal.Zero,
		WeekStartDate:      entities.WeekStart(now),
		IsActive:           true,
		DMTRecordRef:       record.Reference,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	created, err := u.repo.Create(ctx, v)
	if err != nil {
		log.Printf("[vehicle][usecase] register create failed registration_number=%s err=%v", reg, err)
		// The storage-level uniqueness condition catches the race the
		// pre-read above cannot: two concurrent registrations of one plate.
		if errors.Is(err, interfaces.ErrRegistrationNumberTaken) {
			return entities.Vehicle{}, ErrVehicleAlreadyRegistered
		}
		return entities.Vehicle{}, err
	}

	token, err := u.binder.Issue(ctx, created.ID)
	if err != nil {
		log.Printf("[vehicle][usecase] qr issue failed vehicle_id=%s err=%v", created.ID, err)
		return entities.Vehicle{}, err
	}
	created.QRToken = token

	log.Printf("[vehicle][usecase] register success vehicle_id=%s registration_number=%s fuel_type=%s quota=%s",
		created.ID, reg, created.FuelType, created.WeeklyQuotaLiters)
	return created, nil
}

func (u *VehicleUseCase) GetByID(ctx context.Context, id string) (entities.Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Vehicle{}, ErrInvalidVehicleID
	}

	v, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Vehicle{}, err
	}
	if v.ID == "" {
		return entities.Vehicle{}, ErrVehicleNotFound
	}
	return v, nil
}

func (u *VehicleUseCase) Activate(ctx context.Context, id string) (entities.Vehicle, error) {
	return u.setActive(ctx, id, true)
}

func (u *VehicleUseCase) Deactivate(ctx context.Context, id string) (entities.Vehicle, error) {
	return u.setActive(ctx, id, false)
}

func (u *VehicleUseCase) setActive(ctx context.Context, id string, active bool) (entities.Vehicle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Vehicle{}, ErrInvalidVehicleID
	}

	v, err := u.repo.SetActive(ctx, id, active)
	if err != nil {
		return entities.Vehicle{}, err
	}
	if v.ID == "" {
		return entities.Vehicle{}, ErrVehicleNotFound
	}
	log.Printf("[vehicle][usecase] set-active vehicle_id=%s active=%t", id, active)
	return v, nil
}
