package repository

import (
	"strings"
	"testing"
	"time"
)

func validVehicleItem() vehicleItem {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return vehicleItem{
		ID:                 "veh-1",
		RegistrationNumber: "CAB-1234",
		ChassisNumber:      "CH-9",
		EngineNumber:       "EN-9",
		FuelType:           "PETROL",
		WeeklyQuotaLiters:  "20",
		CurrentWeekUsed:    "5",
		WeekStartDate:      now,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func validTransactionItem() transactionItem {
	return transactionItem{
		ID:             "tx-1",
		VehicleID:      "veh-1",
		StationID:      "st-1",
		OperatorID:     "op-1",
		FuelType:       "PETROL",
		QuantityLiters: "5",
		QuotaBefore:    "5",
		QuotaAfter:     "10",
		Timestamp:      time.Now().UTC().Format(time.RFC3339Nano),
		Status:         "COMMITTED",
	}
}

func TestFromVehicleItem(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		v, err := fromVehicleItem(validVehicleItem())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.WeeklyQuotaLiters.String() != "20" || v.CurrentWeekUsed.String() != "5" {
			t.Fatalf("unexpected quota state: quota=%s used=%s", v.WeeklyQuotaLiters, v.CurrentWeekUsed)
		}
	})

	// A corrupted row must surface as a storage error, never as a vehicle
	// with zero quota that then fails dispensing with InsufficientQuota.
	t.Run("corrupt quota", func(t *testing.T) {
		it := validVehicleItem()
		it.WeeklyQuotaLiters = "not-a-number"
		if _, err := fromVehicleItem(it); err == nil {
			t.Fatal("expected error for corrupt weekly_quota_liters")
		} else if !strings.Contains(err.Error(), "weekly_quota_liters") {
			t.Fatalf("error does not name the corrupt field: %v", err)
		}
	})

	t.Run("corrupt week start", func(t *testing.T) {
		it := validVehicleItem()
		it.WeekStartDate = "yesterday"
		if _, err := fromVehicleItem(it); err == nil {
			t.Fatal("expected error for corrupt week_start_date")
		}
	})
}

func TestFromTransactionItem(t *testing.T) {
	t.Run("valid row", func(t *testing.T) {
		tx, err := fromTransactionItem(validTransactionItem())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tx.QuantityLiters.String() != "5" || tx.QuotaAfter.String() != "10" {
			t.Fatalf("unexpected amounts: quantity=%s after=%s", tx.QuantityLiters, tx.QuotaAfter)
		}
	})

	t.Run("corrupt quantity", func(t *testing.T) {
		it := validTransactionItem()
		it.QuantityLiters = ""
		if _, err := fromTransactionItem(it); err == nil {
			t.Fatal("expected error for corrupt quantity_liters")
		}
	})

	t.Run("corrupt cancelled_at", func(t *testing.T) {
		it := validTransactionItem()
		it.CancelledAt = "not-a-time"
		if _, err := fromTransactionItem(it); err == nil {
			t.Fatal("expected error for corrupt cancelled_at")
		}
	})
}
