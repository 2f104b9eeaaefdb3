package handlers

import (
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
	errInvalidDispensePayload = pkg.NewDomainErrorSimple("INVALID_DISPENSE_INPUT", "Invalid dispense payload", http.StatusBadRequest)
)

// DispenseHandler handles the station-terminal flow: quota check by scanned
// token, then the dispense itself.

type DispenseHandler struct {
	usecase usecase.IDispenseUseCase
}

func NewDispenseHandler(uc usecase.IDispenseUseCase) *DispenseHandler {
	return &DispenseHandler{usecase: uc}
}

// Dispense records a fuel draw against the vehicle's weekly quota. The whole
// operation either commits (vehicle debited, transaction recorded) or fails
// with no state change.
func (h *DispenseHandler) Dispense(c *gin.Context) {
	var payload request.DispenseRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidDispensePayload.HTTPStatus, errInvalidDispensePayload.ToHTTPError())
		return
	}

	fuelType, err := payload.ResolveFuelType()
	if err != nil {
		c.JSON(http.StatusBadRequest, pkg.NewDomainErrorSimple("UNKNOWN_FUEL_TYPE", "Unknown fuel type", http.StatusBadRequest).ToHTTPError())
		return
	}

	quantity, err := payload.ResolveQuantity()
	if err != nil {
		c.JSON(errInvalidDispensePayload.HTTPStatus, errInvalidDispensePayload.ToHTTPError())
		return
	}

	tx, err := h.usecase.Dispense(c.Request.Context(), usecase.DispenseCommand{
		Token:            payload.ResolveToken(),
		ClaimedVehicleID: payload.VehicleID,
		StationID:        payload.StationID,
		OperatorID:       payload.OperatorID,
		FuelType:         fuelType,
		QuantityLiters:   quantity,
	})
	if err != nil {
		appErr := mapDispenseError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusCreated, response.FromTransaction(tx))
}

// QuotaByToken returns the remaining liters for the vehicle behind a scanned
// token. Read-only; commits nothing.
func (h *DispenseHandler) QuotaByToken(c *gin.Context) {
	status, err := h.usecase.QuotaByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		appErr := mapDispenseError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromQuotaStatus(status))
}

func mapDispenseError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrInvalidStationID),
		errors.Is(err, usecase.ErrInvalidOperatorID),
		errors.Is(err, usecase.ErrInvalidQRToken),
		errors.Is(err, entities.ErrUnknownFuelType):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrTokenNotFound):
		return pkg.NewDomainErrorSimple("TOKEN_NOT_FOUND", "QR token not recognized", http.StatusNotFound)
	case errors.Is(err, usecase.ErrQRMismatch):
		return pkg.NewDomainErrorSimple("TOKEN_VEHICLE_MISMATCH", "QR token does not belong to the claimed vehicle", http.StatusForbidden)
	case errors.Is(err, usecase.ErrInactiveVehicle), errors.Is(err, interfaces.ErrVehicleInactive):
		return pkg.NewDomainErrorSimple("VEHICLE_INACTIVE", "Vehicle is deactivated", http.StatusConflict)
	case errors.Is(err, usecase.ErrFuelTypeMismatch):
		return pkg.NewDomainErrorSimple("FUEL_TYPE_MISMATCH", "Requested fuel type does not match the vehicle", http.StatusConflict)
	case errors.Is(err, interfaces.ErrInsufficientQuota):
		return pkg.NewDomainErrorSimple("INSUFFICIENT_QUOTA", "Requested quantity exceeds remaining weekly quota", http.StatusConflict)
	case errors.Is(err, interfaces.ErrVehicleGone):
		return pkg.NewDomainErrorSimple("VEHICLE_NOT_FOUND", "Vehicle not found", http.StatusNotFound)
	case errors.Is(err, interfaces.ErrConcurrencyConflict):
		return pkg.NewDomainErrorSimple("CONCURRENT_UPDATE", "Vehicle quota is being updated, retry", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
