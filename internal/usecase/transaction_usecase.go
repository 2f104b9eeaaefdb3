package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase/interfaces"
)

var (
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrAlreadyCancelled     = errors.New("transaction already cancelled")
	ErrInvalidTransactionID = errors.New("invalid transaction id")
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// ITransactionUseCase exposes the audit trail: cancelling a committed
// dispensing event and reading a vehicle's history.

type ITransactionUseCase interface {
	Cancel(ctx context.Context, transactionID string) (entities.Transaction, error)
	HistoryByVehicle(ctx context.Context, vehicleID string, limit int) ([]entities.Transaction, error)
}

type TransactionUseCase struct {
	transactions interfaces.ITransactionRepository
	vehicles     interfaces.IVehicleRepository
	ledger       interfaces.IQuotaLedger
}

var _ ITransactionUseCase = (*TransactionUseCase)(nil)

func NewTransactionUseCase(transactions interfaces.ITransactionRepository, vehicles interfaces.IVehicleRepository, ledger interfaces.IQuotaLedger) *TransactionUseCase {
	return &TransactionUseCase{transactions: transactions, vehicles: vehicles, ledger: ledger}
}

// Cancel transitions a transaction COMMITTED -> CANCELLED exactly once and
// credits the quantity back to the vehicle's window. A second cancel of the
// same id reports ErrAlreadyCancelled and credits nothing.
func (u *TransactionUseCase) Cancel(ctx context.Context, transactionID string) (entities.Transaction, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return entities.Transaction{}, ErrInvalidTransactionID
	}
	log.Printf("[transaction][usecase] cancel start transaction_id=%s", transactionID)

	tx, err := u.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return entities.Transaction{}, err
	}
	if tx.ID == "" {
		return entities.Transaction{}, ErrTransactionNotFound
	}
	if tx.Status == entities.TransactionStatusCancelled {
		return entities.Transaction{}, ErrAlreadyCancelled
	}

	cancelled, err := u.ledger.Release(ctx, tx)
	if err != nil {
		// A concurrent cancel may win between the read above and the release.
		if errors.Is(err, interfaces.ErrTransactionCancelled) {
			return entities.Transaction{}, ErrAlreadyCancelled
		}
		log.Printf("[transaction][usecase] cancel failed transaction_id=%s err=%v", transactionID, err)
		return entities.Transaction{}, err
	}

	log.Printf("[transaction][usecase] cancel success transaction_id=%s vehicle_id=%s credited=%s",
		cancelled.ID, cancelled.VehicleID, cancelled.QuantityLiters)
	return cancelled, nil
}

// HistoryByVehicle lists a vehicle's transactions newest-first. Each call
// re-reads from storage.
func (u *TransactionUseCase) HistoryByVehicle(ctx context.Context, vehicleID string, limit int) ([]entities.Transaction, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, ErrInvalidVehicleID
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	v, err := u.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.ID == "" {
		return nil, ErrVehicleNotFound
	}

	return u.transactions.ListByVehicleID(ctx, vehicleID, limit)
}
