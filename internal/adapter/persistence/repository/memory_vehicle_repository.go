package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase/interfaces"
)

// MemoryVehicleRepository is an in-memory IVehicleRepository with the same
// observable semantics as the DynamoDB implementation. Used by tests and by
// local runs with PERSISTENCE_DRIVER=memory.

type MemoryVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[string]entities.Vehicle
}

var _ interfaces.IVehicleRepository = (*MemoryVehicleRepository)(nil)

func NewMemoryVehicleRepository() *MemoryVehicleRepository {
	return &MemoryVehicleRepository{vehicles: make(map[string]entities.Vehicle)}
}

func (r *MemoryVehicleRepository) Create(_ context.Context, v entities.Vehicle) (entities.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[v.ID]; ok {
		return entities.Vehicle{}, errors.New("vehicle id already exists")
	}
	// One quota-bearing vehicle per plate, enforced under the write lock.
	for _, existing := range r.vehicles {
		if strings.EqualFold(existing.RegistrationNumber, v.RegistrationNumber) {
			return entities.Vehicle{}, interfaces.ErrRegistrationNumberTaken
		}
	}
	r.vehicles[v.ID] = v
	return v, nil
}

func (r *MemoryVehicleRepository) GetByID(_ context.Context, id string) (entities.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vehicles[id], nil
}

func (r *MemoryVehicleRepository) GetByQRToken(_ context.Context, token string) (entities.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.vehicles {
		if v.QRToken == token {
			return v, nil
		}
	}
	return entities.Vehicle{}, nil
}

func (r *MemoryVehicleRepository) GetByRegistrationNumber(_ context.Context, registrationNumber string) (entities.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.vehicles {
		if strings.EqualFold(v.RegistrationNumber, registrationNumber) {
			return v, nil
		}
	}
	return entities.Vehicle{}, nil
}

func (r *MemoryVehicleRepository) BindQRToken(_ context.Context, vehicleID, token string) (entities.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return entities.Vehicle{}, nil
	}
	if v.QRToken != "" {
		return entities.Vehicle{}, interfaces.ErrQRTokenBound
	}
	v.QRToken = token
	v.UpdatedAt = time.Now().UTC()
	r.vehicles[vehicleID] = v
	return v, nil
}

func (r *MemoryVehicleRepository) SetActive(_ context.Context, vehicleID string, active bool) (entities.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return entities.Vehicle{}, nil
	}
	v.IsActive = active
	v.UpdatedAt = time.Now().UTC()
	r.vehicles[vehicleID] = v
	return v, nil
}

// compareAndSwap applies next's quota state only if the stored quota state
// still matches the observed snapshot. Mirrors the conditional write the
// DynamoDB ledger relies on: only current_week_used, week_start_date and
// updated_at are written, so a concurrent non-quota mutation (deactivation,
// token bind) is never overwritten by a stale snapshot. With requireActive
// the swap additionally fails if the vehicle has been deactivated since the
// read, like the reserve condition's is_active pin.
func (r *MemoryVehicleRepository) compareAndSwap(observed, next entities.Vehicle, requireActive bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.vehicles[observed.ID]
	if !ok {
		return false
	}
	if !current.CurrentWeekUsed.Equal(observed.CurrentWeekUsed) || !current.WeekStartDate.Equal(observed.WeekStartDate) {
		return false
	}
	if requireActive && !current.IsActive {
		return false
	}
	current.CurrentWeekUsed = next.CurrentWeekUsed
	current.WeekStartDate = next.WeekStartDate
	current.UpdatedAt = next.UpdatedAt
	r.vehicles[observed.ID] = current
	return true
}

// MemoryTransactionRepository is the in-memory audit-trail counterpart.

type MemoryTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]entities.Transaction
}

var _ interfaces.ITransactionRepository = (*MemoryTransactionRepository)(nil)

func NewMemoryTransactionRepository() *MemoryTransactionRepository {
	return &MemoryTransactionRepository{transactions: make(map[string]entities.Transaction)}
}

func (r *MemoryTransactionRepository) GetByID(_ context.Context, id string) (entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.transactions[id], nil
}

func (r *MemoryTransactionRepository) ListByVehicleID(_ context.Context, vehicleID string, limit int) ([]entities.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := make([]entities.Transaction, 0, limit)
	for _, tx := range r.transactions {
		if tx.VehicleID == vehicleID {
			items = append(items, tx)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *MemoryTransactionRepository) put(tx entities.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[tx.ID] = tx
}
