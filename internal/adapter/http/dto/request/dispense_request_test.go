package request

import (
	"errors"
	"testing"

	"fuelquota/internal/domain/entities"
)

func TestDispenseRequest_ResolveFuelType(t *testing.T) {
	r := DispenseRequest{FuelType: " petrol "}
	ft, err := r.ResolveFuelType()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ft != entities.FuelTypePetrol {
		t.Fatalf("expected PETROL, got %s", ft)
	}

	r2 := DispenseRequest{FuelType: "JET_A1"}
	if _, err := r2.ResolveFuelType(); !errors.Is(err, entities.ErrUnknownFuelType) {
		t.Fatalf("expected ErrUnknownFuelType, got %v", err)
	}
}

func TestDispenseRequest_ResolveQuantity(t *testing.T) {
	r := DispenseRequest{QuantityLiters: 7.5}
	q, err := r.ResolveQuantity()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.String() != "7.5" {
		t.Fatalf("expected 7.5, got %s", q)
	}

	for _, bad := range []float64{0, -1} {
		r2 := DispenseRequest{QuantityLiters: bad}
		if _, err := r2.ResolveQuantity(); !errors.Is(err, ErrInvalidQuantityValue) {
			t.Fatalf("expected ErrInvalidQuantityValue for %v, got %v", bad, err)
		}
	}
}
