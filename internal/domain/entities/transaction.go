package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the audit-trail state of a dispensing event. Records
// are append-only except for the COMMITTED -> CANCELLED transition, which
// happens at most once.

type TransactionStatus string

const (
	TransactionStatusCommitted TransactionStatus = "COMMITTED"
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

// Transaction is the immutable audit record of one dispensing event.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (vehicle_id-timestamp-index): vehicle_id + timestamp
//
// A transaction exists only as the result of a successful quota reservation;
// it is written in the same atomic unit as the vehicle mutation it audits.
// QuotaBefore/QuotaAfter snapshot the vehicle's used liters at commit time, so
// the committed transactions of one window always sum to that window's usage.

type Transaction struct {
	ID             string            `json:"id"`
	VehicleID      string            `json:"vehicle_id"`
	StationID      string            `json:"station_id"`
	OperatorID     string            `json:"operator_id"`
	FuelType       FuelType          `json:"fuel_type"`
	QuantityLiters decimal.Decimal   `json:"quantity_liters"`
	QuotaBefore    decimal.Decimal   `json:"quota_before"`
	QuotaAfter     decimal.Decimal   `json:"quota_after"`
	Timestamp      time.Time         `json:"timestamp"`
	Status         TransactionStatus `json:"status"`
	CancelledAt    time.Time         `json:"cancelled_at,omitempty"`
}
