package response

import (
	"time"

	"fuelquota/internal/usecase"
)

// QuotaStatusResponse is the pre-dispense quota view shown at the pump.
type QuotaStatusResponse struct {
	VehicleID       string    `json:"vehicle_id"`
	FuelType        string    `json:"fuel_type"`
	RemainingLiters string    `json:"remaining_liters"`
	WeekStartDate   time.Time `json:"week_start_date"`
}

func FromQuotaStatus(s usecase.QuotaStatus) QuotaStatusResponse {
	return QuotaStatusResponse{
		VehicleID:       s.VehicleID,
		FuelType:        string(s.FuelType),
		RemainingLiters: s.RemainingLiters.String(),
		WeekStartDate:   s.WeekStartDate,
	}
}
