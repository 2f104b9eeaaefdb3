package response

import (
	"time"

	"fuelquota/internal/domain/entities"
)

// TransactionResponse mirrors one audit-trail record. Liter amounts are
// rendered as decimal strings so clients never see float rounding.
type TransactionResponse struct {
	ID             string     `json:"id"`
	VehicleID      string     `json:"vehicle_id"`
	StationID      string     `json:"station_id"`
	OperatorID     string     `json:"operator_id"`
	FuelType       string     `json:"fuel_type"`
	QuantityLiters string     `json:"quantity_liters"`
	QuotaBefore    string     `json:"quota_before"`
	QuotaAfter     string     `json:"quota_after"`
	Timestamp      time.Time  `json:"timestamp"`
	Status         string     `json:"status"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
}

func FromTransaction(tx entities.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:             tx.ID,
		VehicleID:      tx.VehicleID,
		StationID:      tx.StationID,
		OperatorID:     tx.OperatorID,
		FuelType:       string(tx.FuelType),
		QuantityLiters: tx.QuantityLiters.String(),
		QuotaBefore:    tx.QuotaBefore.String(),
		QuotaAfter:     tx.QuotaAfter.String(),
		Timestamp:      tx.Timestamp,
		Status:         string(tx.Status),
	}
	if !tx.CancelledAt.IsZero() {
		cancelledAt := tx.CancelledAt
		resp.CancelledAt = &cancelledAt
	}
	return resp
}

func FromTransactions(txs []entities.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, FromTransaction(tx))
	}
	return out
}
