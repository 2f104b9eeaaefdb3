package handlers

import (
	"context"
	"errors"
	"net/http"

	request "fuelquota/internal/adapter/http/dto/request"
	response "fuelquota/internal/adapter/http/dto/response"
	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase"
	"fuelquota/internal/usecase/interfaces"
	"fuelquota/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidVehiclePayload = pkg.NewDomainErrorSimple("INVALID_VEHICLE_INPUT", "Invalid vehicle payload", http.StatusBadRequest)
)

// VehicleHandler handles vehicle onboarding and lifecycle administration.

type VehicleHandler struct {
	usecase usecase.IVehicleUseCase
}

func NewVehicleHandler(uc usecase.IVehicleUseCase) *VehicleHandler {
	return &VehicleHandler{usecase: uc}
}

// Register onboards a vehicle: registry validation, quota assignment and QR
// issuance. The QR token is returned here and never again.
func (h *VehicleHandler) Register(c *gin.Context) {
	var payload request.RegisterVehicleRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidVehiclePayload.HTTPStatus, errInvalidVehiclePayload.ToHTTPError())
		return
	}

	fuelType, err := payload.ResolveFuelType()
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.NewDomainErrorSimple("UNKNOWN_FUEL_TYPE", "Unknown fuel type", http.StatusBadRequest).ToHTTPError())
		return
	}

	v, err := h.usecase.RegisterVehicle(c.Request.Context(), usecase.RegisterVehicleCommand{
		RegistrationNumber: payload.ResolveRegistrationNumber(),
		ChassisNumber:      payload.ChassisNumber,
		EngineNumber:       payload.EngineNumber,
		FuelType:           fuelType,
	})
	if err != nil {
		appErr := mapVehicleError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromRegisteredVehicle(v))
}

func (h *VehicleHandler) GetByID(c *gin.Context) {
	v, err := h.usecase.GetByID(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		appErr := mapVehicleError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromVehicle(v))
}

func (h *VehicleHandler) Activate(c *gin.Context) {
	h.patchActiveFlag(c, h.usecase.Activate)
}

func (h *VehicleHandler) Deactivate(c *gin.Context) {
	h.patchActiveFlag(c, h.usecase.Deactivate)
}

func (h *VehicleHandler) patchActiveFlag(
	c *gin.Context,
	updater func(ctx context.Context, id string) (entities.Vehicle, error),
) {
	v, err := updater(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		appErr := mapVehicleError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromVehicle(v))
}

func mapVehicleError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidVehicleID), errors.Is(err, usecase.ErrInvalidVehicleIdentity):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrVehicleAlreadyRegistered):
		return pkg.NewDomainErrorSimple("VEHICLE_ALREADY_REGISTERED", "Vehicle is already registered", http.StatusConflict)
	case errors.Is(err, usecase.ErrVehicleNotFound):
		return pkg.NewDomainErrorSimple("VEHICLE_NOT_FOUND", "Vehicle not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrQRAlreadyBound):
		return pkg.NewDomainErrorSimple("QR_ALREADY_BOUND", "Vehicle already carries a QR credential", http.StatusConflict)
	case errors.Is(err, interfaces.ErrRegistryRecordNotFound):
		return pkg.NewDomainErrorSimple("VEHICLE_NOT_IN_REGISTRY", "Vehicle not found in motor-traffic registry", http.StatusNotFound)
	case errors.Is(err, interfaces.ErrRegistryUnavailable):
		return pkg.NewDomainErrorSimple("REGISTRY_UNAVAILABLE", "Motor-traffic registry unavailable, retry later", http.StatusBadGateway)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
