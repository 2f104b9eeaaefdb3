package repository

import (
	"context"
	"testing"
	"time"

	"fuelquota/internal/usecase/interfaces"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMemoryVehicleRepository_RegistrationNumberUnique(t *testing.T) {
	vehicles := NewMemoryVehicleRepository()
	ctx := context.Background()

	first := seedVehicle(t, vehicles, "20")

	dup := first
	dup.ID = "veh-2"
	dup.RegistrationNumber = "cab-1234"
	_, err := vehicles.Create(ctx, dup)
	require.ErrorIs(t, err, interfaces.ErrRegistrationNumberTaken)

	// Only the first vehicle carries the plate's quota.
	stored, err := vehicles.GetByID(ctx, "veh-2")
	require.NoError(t, err)
	require.Empty(t, stored.ID)
}

func TestMemoryVehicleRepository_QuotaSwapPreservesConcurrentDeactivation(t *testing.T) {
	vehicles := NewMemoryVehicleRepository()
	ctx := context.Background()
	v := seedVehicle(t, vehicles, "20")

	snapshot, err := vehicles.GetByID(ctx, v.ID)
	require.NoError(t, err)

	// Deactivation lands between the ledger's read and its write-back.
	_, err = vehicles.SetActive(ctx, v.ID, false)
	require.NoError(t, err)

	next := snapshot
	next.CurrentWeekUsed = decimal.RequireFromString("5")
	next.UpdatedAt = time.Now().UTC()
	require.True(t, vehicles.compareAndSwap(snapshot, next, false))

	// The swap writes quota fields only; the flag flip survives.
	stored, err := vehicles.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive)
	require.Equal(t, "5", stored.CurrentWeekUsed.String())
}

func TestMemoryVehicleRepository_ActivePinRejectsSwapAfterDeactivation(t *testing.T) {
	vehicles := NewMemoryVehicleRepository()
	ctx := context.Background()
	v := seedVehicle(t, vehicles, "20")

	snapshot, err := vehicles.GetByID(ctx, v.ID)
	require.NoError(t, err)

	_, err = vehicles.SetActive(ctx, v.ID, false)
	require.NoError(t, err)

	next := snapshot
	next.CurrentWeekUsed = decimal.RequireFromString("5")
	require.False(t, vehicles.compareAndSwap(snapshot, next, true))

	stored, err := vehicles.GetByID(ctx, v.ID)
	require.NoError(t, err)
	require.Equal(t, "0", stored.CurrentWeekUsed.String())
}
