package usecase

import (
	"log"
	"os"

	"fuelquota/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// QuotaPolicy assigns the weekly liter ceiling per fuel type at onboarding.
// Ceilings come from the environment so operations can tune them without a
// deployment:
//
//	WEEKLY_QUOTA_PETROL_LITERS   (default: 20)
//	WEEKLY_QUOTA_DIESEL_LITERS   (default: 40)
//	WEEKLY_QUOTA_KEROSENE_LITERS (default: 10)

type QuotaPolicy struct {
	weekly map[entities.FuelType]decimal.Decimal
}

func NewQuotaPolicyFromEnv() QuotaPolicy {
	return QuotaPolicy{
		weekly: map[entities.FuelType]decimal.Decimal{
			entities.FuelTypePetrol:   quotaFromEnv("WEEKLY_QUOTA_PETROL_LITERS", "20"),
			entities.FuelTypeDiesel:   quotaFromEnv("WEEKLY_QUOTA_DIESEL_LITERS", "40"),
			entities.FuelTypeKerosene: quotaFromEnv("WEEKLY_QUOTA_KEROSENE_LITERS", "10"),
		},
	}
}

// WeeklyQuotaLiters returns the ceiling for a fuel type.
func (p QuotaPolicy) WeeklyQuotaLiters(ft entities.FuelType) decimal.Decimal {
	return p.weekly[ft]
}

func quotaFromEnv(key, def string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		raw = def
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.Sign() <= 0 {
		log.Printf("[quota][policy] invalid %s=%q, using default %s", key, raw, def)
		d, _ = decimal.NewFromString(def)
	}
	return d
}
