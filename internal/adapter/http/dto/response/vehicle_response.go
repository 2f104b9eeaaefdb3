package response

import (
	"time"

	"fuelquota/internal/domain/entities"
)

type VehicleResponse struct {
	ID                 string    `json:"id"`
	RegistrationNumber string    `json:"registration_number"`
	ChassisNumber      string    `json:"chassis_number"`
	EngineNumber       string    `json:"engine_number"`
	FuelType           string    `json:"fuel_type"`
	WeeklyQuotaLiters  string    `json:"weekly_quota_liters"`
	CurrentWeekUsed    string    `json:"current_week_used"`
	RemainingLiters    string    `json:"remaining_liters"`
	WeekStartDate      time.Time `json:"week_start_date"`
	IsActive           bool      `json:"is_active"`
	DMTRecordRef       string    `json:"dmt_record_ref"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// RegisteredVehicleResponse is returned once, at onboarding. It is the only
// place the QR credential ever appears in a response body.
type RegisteredVehicleResponse struct {
	VehicleResponse
	QRToken string `json:"qr_token"`
}

func FromVehicle(v entities.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:                 v.ID,
		RegistrationNumber: v.RegistrationNumber,
		ChassisNumber:      v.ChassisNumber,
		EngineNumber:       v.EngineNumber,
		FuelType:           string(v.FuelType),
		WeeklyQuotaLiters:  v.WeeklyQuotaLiters.String(),
		CurrentWeekUsed:    v.CurrentWeekUsed.String(),
		RemainingLiters:    v.RemainingLiters().String(),
		WeekStartDate:      v.WeekStartDate,
		IsActive:           v.IsActive,
		DMTRecordRef:       v.DMTRecordRef,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}

func FromRegisteredVehicle(v entities.Vehicle) RegisteredVehicleResponse {
	return RegisteredVehicleResponse{
		VehicleResponse: FromVehicle(v),
		QRToken:         v.QRToken,
	}
}
