package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Vehicle is the quota-bearing aggregate persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (qr_token-index): qr_token
//   - GSI2 (registration_number-index): registration_number
//
// Quota representation:
//   - Liters are decimals (exact arithmetic); the invariant
//     0 <= CurrentWeekUsed <= WeeklyQuotaLiters holds at every committed state.
//   - WeekStartDate anchors the active window; it only ever advances forward
//     in whole weeks.
//
// Identity (registration/chassis/engine numbers) is validated once against the
// motor-traffic registry at onboarding and immutable afterwards. DMTRecordRef
// keeps a reference to the validated registry record; the record itself is not
// owned here.

type Vehicle struct {
	ID                 string          `json:"id"`
	RegistrationNumber string          `json:"registration_number"`
	ChassisNumber      string          `json:"chassis_number"`
	EngineNumber       string          `json:"engine_number"`
	FuelType           FuelType        `json:"fuel_type"`
	WeeklyQuotaLiters  decimal.Decimal `json:"weekly_quota_liters"`
	CurrentWeekUsed    decimal.Decimal `json:"current_week_used"`
	WeekStartDate      time.Time       `json:"week_start_date"`
	QRToken            string          `json:"-"`
	IsActive           bool            `json:"is_active"`
	DMTRecordRef       string          `json:"dmt_record_ref"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// RemainingLiters is the headroom left in the vehicle's current window,
// without applying window normalization.
func (v Vehicle) RemainingLiters() decimal.Decimal {
	return v.WeeklyQuotaLiters.Sub(v.CurrentWeekUsed)
}

// OwnerRecord is the authoritative vehicle/owner fact returned by the external
// motor-traffic registry. Consulted only at onboarding.
type OwnerRecord struct {
	Reference          string `json:"reference"`
	OwnerName          string `json:"owner_name"`
	OwnerNIC           string `json:"owner_nic"`
	RegistrationNumber string `json:"registration_number"`
	ChassisNumber      string `json:"chassis_number"`
	EngineNumber       string `json:"engine_number"`
	VehicleClass       string `json:"vehicle_class"`
}
