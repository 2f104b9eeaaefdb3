package handlers

import (
	"errors"
	"net/http"
	"strconv"

	response "fuelquota/internal/adapter/http/dto/response"
	"fuelquota/internal/usecase"
	"fuelquota/internal/usecase/interfaces"
	"fuelquota/pkg"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes the audit trail: per-vehicle history and the
// cancel-with-credit operation.

type TransactionHandler struct {
	usecase usecase.ITransactionUseCase
}

func NewTransactionHandler(uc usecase.ITransactionUseCase) *TransactionHandler {
	return &TransactionHandler{usecase: uc}
}

// Cancel flips a committed transaction to CANCELLED and credits its liters
// back to the vehicle's current window. Safe to retry: the second attempt
// reports the conflict without crediting again.
func (h *TransactionHandler) Cancel(c *gin.Context) {
	tx, err := h.usecase.Cancel(c.Request.Context(), c.Param("transaction_id"))
	if err != nil {
		appErr := mapTransactionError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromTransaction(tx))
}

// History lists a vehicle's transactions, newest first. `limit` is optional.
func (h *TransactionHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest).ToHTTPError())
			return
		}
		limit = parsed
	}

	txs, err := h.usecase.HistoryByVehicle(c.Request.Context(), c.Param("vehicle_id"), limit)
	if err != nil {
		appErr := mapTransactionError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromTransactions(txs))
}

func mapTransactionError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidTransactionID), errors.Is(err, usecase.ErrInvalidVehicleID):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrTransactionNotFound):
		return pkg.NewDomainErrorSimple("TRANSACTION_NOT_FOUND", "Transaction not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrVehicleNotFound), errors.Is(err, interfaces.ErrVehicleGone):
		return pkg.NewDomainErrorSimple("VEHICLE_NOT_FOUND", "Vehicle not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrAlreadyCancelled):
		return pkg.NewDomainErrorSimple("TRANSACTION_ALREADY_CANCELLED", "Transaction is already cancelled", http.StatusConflict)
	case errors.Is(err, interfaces.ErrConcurrencyConflict):
		return pkg.NewDomainErrorSimple("CONCURRENT_UPDATE", "Vehicle quota is being updated, retry", http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
