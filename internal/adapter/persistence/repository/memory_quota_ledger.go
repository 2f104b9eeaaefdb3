package repository

import (
	"context"
	"sync"
	"time"

	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
)

// MemoryQuotaLedger implements IQuotaLedger over the in-memory repositories.
// Instead of conditional writes it serializes reserve/release per vehicle with
// a mutex, which gives the same observable guarantees: no lost updates, no
// overspend, idempotent cancel.

type MemoryQuotaLedger struct {
	vehicles     *MemoryVehicleRepository
	transactions *MemoryTransactionRepository

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ interfaces.IQuotaLedger = (*MemoryQuotaLedger)(nil)

func NewMemoryQuotaLedger(vehicles *MemoryVehicleRepository, transactions *MemoryTransactionRepository) *MemoryQuotaLedger {
	return &MemoryQuotaLedger{
		vehicles:     vehicles,
		transactions: transactions,
		locks:        make(map[string]*sync.Mutex),
	}
}

func (l *MemoryQuotaLedger) vehicleLock(vehicleID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[vehicleID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[vehicleID] = lock
	}
	return lock
}

func (l *MemoryQuotaLedger) Reserve(ctx context.Context, draft entities.Transaction) (entities.Transaction, error) {
	if draft.QuantityLiters.Sign() <= 0 {
		return entities.Transaction{}, interfaces.ErrNonPositiveQuantity
	}
	lock := l.vehicleLock(draft.VehicleID)
	lock.Lock()
	defer lock.Unlock()

	v, err := l.vehicles.GetByID(ctx, draft.VehicleID)
	if err != nil {
		return entities.Transaction{}, err
	}
	if v.ID == "" {
		return entities.Transaction{}, interfaces.ErrVehicleGone
	}
	if !v.IsActive {
		return entities.Transaction{}, interfaces.ErrVehicleInactive
	}

	weekStart, used := v.NormalizedWindow(draft.Timestamp)
	remaining := v.WeeklyQuotaLiters.Sub(used)
	if draft.QuantityLiters.GreaterThan(remaining) {
		return entities.Transaction{}, &interfaces.InsufficientQuotaError{
			VehicleID:       v.ID,
			RequestedLiters: draft.QuantityLiters,
			RemainingLiters: remaining,
		}
	}

	tx := draft
	tx.QuotaBefore = used
	tx.QuotaAfter = used.Add(draft.QuantityLiters)

	next := v
	next.CurrentWeekUsed = tx.QuotaAfter
	next.WeekStartDate = weekStart
	next.UpdatedAt = time.Now().UTC()
	if !l.vehicles.compareAndSwap(v, next, true) {
		return entities.Transaction{}, interfaces.ErrConcurrencyConflict
	}
	l.transactions.put(tx)
	return tx, nil
}

func (l *MemoryQuotaLedger) Release(ctx context.Context, tx entities.Transaction) (entities.Transaction, error) {
	lock := l.vehicleLock(tx.VehicleID)
	lock.Lock()
	defer lock.Unlock()

	stored, err := l.transactions.GetByID(ctx, tx.ID)
	if err != nil {
		return entities.Transaction{}, err
	}
	if stored.Status == entities.TransactionStatusCancelled {
		return entities.Transaction{}, interfaces.ErrTransactionCancelled
	}

	v, err := l.vehicles.GetByID(ctx, tx.VehicleID)
	if err != nil {
		return entities.Transaction{}, err
	}
	if v.ID == "" {
		return entities.Transaction{}, interfaces.ErrVehicleGone
	}

	newUsed := v.CurrentWeekUsed
	if entities.WindowContains(v.WeekStartDate, stored.Timestamp) {
		newUsed = v.CurrentWeekUsed.Sub(stored.QuantityLiters)
		if newUsed.Sign() < 0 {
			newUsed = decimal.Zero
		}
	}

	cancelled := stored
	cancelled.Status = entities.TransactionStatusCancelled
	cancelled.CancelledAt = time.Now().UTC()

	next := v
	next.CurrentWeekUsed = newUsed
	next.UpdatedAt = cancelled.CancelledAt
	if !l.vehicles.compareAndSwap(v, next, false) {
		return entities.Transaction{}, interfaces.ErrConcurrencyConflict
	}
	l.transactions.put(cancelled)
	return cancelled, nil
}
