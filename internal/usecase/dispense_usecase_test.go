package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase/interfaces"
	mock_interfaces "fuelquota/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func activeTestVehicle() entities.Vehicle {
	return entities.Vehicle{
		ID:                 "veh-1",
		RegistrationNumber: "CAB-1234",
		FuelType:           entities.FuelTypePetrol,
		WeeklyQuotaLiters:  decimal.RequireFromString("20"),
		CurrentWeekUsed:    decimal.RequireFromString("5"),
		WeekStartDate:      entities.WeekStart(time.Now().UTC()),
		QRToken:            "tok-1",
		IsActive:           true,
	}
}

func validDispenseCommand() DispenseCommand {
	return DispenseCommand{
		Token:            "tok-1",
		ClaimedVehicleID: "veh-1",
		StationID:        "st-1",
		OperatorID:       "op-1",
		FuelType:         entities.FuelTypePetrol,
		QuantityLiters:   decimal.RequireFromString("10"),
	}
}

func TestDispenseUseCase_Dispense(t *testing.T) {
	t.Run("invalid station id", func(t *testing.T) {
		uc := NewDispenseUseCase(nil, nil)
		cmd := validDispenseCommand()
		cmd.StationID = "   "
		_, err := uc.Dispense(context.Background(), cmd)
		if !errors.Is(err, ErrInvalidStationID) {
			t.Fatalf("expected ErrInvalidStationID, got %v", err)
		}
	})

	t.Run("invalid operator id", func(t *testing.T) {
		uc := NewDispenseUseCase(nil, nil)
		cmd := validDispenseCommand()
		cmd.OperatorID = ""
		_, err := uc.Dispense(context.Background(), cmd)
		if !errors.Is(err, ErrInvalidOperatorID) {
			t.Fatalf("expected ErrInvalidOperatorID, got %v", err)
		}
	})

	t.Run("zero quantity", func(t *testing.T) {
		uc := NewDispenseUseCase(nil, nil)
		cmd := validDispenseCommand()
		cmd.QuantityLiters = decimal.Zero
		_, err := uc.Dispense(context.Background(), cmd)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("negative quantity", func(t *testing.T) {
		uc := NewDispenseUseCase(nil, nil)
		cmd := validDispenseCommand()
		cmd.QuantityLiters = decimal.RequireFromString("-3")
		_, err := uc.Dispense(context.Background(), cmd)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("expected ErrInvalidQuantity, got %v", err)
		}
	})

	t.Run("unknown fuel type", func(t *testing.T) {
		uc := NewDispenseUseCase(nil, nil)
		cmd := validDispenseCommand()
		cmd.FuelType = "JET_A1"
		_, err := uc.Dispense(context.Background(), cmd)
		if !errors.Is(err, entities.ErrUnknownFuelType) {
			t.Fatalf("expected ErrUnknownFuelType, got %v", err)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		repo.EXPECT().GetByQRToken(gomock.Any(), "tok-1").Return(entities.Vehicle{}, nil)

		uc := NewDispenseUseCase(NewQRBinder(repo), nil)
		_, err := uc.Dispense(context.Background(), validDispenseCommand())
		if !errors.Is(err, ErrTokenNotFound) {
			t.Fatalf("expected ErrTokenNotFound, got %v", err)
		}
	})

	t.Run("token bound to another vehicle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		other := activeTestVehicle()
		other.ID = "veh-2"
		repo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		repo.EXPECT().GetByQRToken(gomock.Any(), "tok-1").Return(other, nil)

		uc := NewDispenseUseCase(NewQRBinder(repo), nil)
		_, err := uc.Dispense(context.Background(), validDispenseCommand())
		if !errors.Is(err, ErrQRMismatch) {
			t.Fatalf("expected ErrQRMismatch, got %v", err)
		}
	})

	t.Run("inactive vehicle", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		v := activeTestVehicle()
		v.IsActive = false
		repo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		repo.EXPECT().GetByQRToken(gomock.Any(), "tok-1").Return(v, nil)

		uc := NewDispenseUseCase(NewQRBinder(repo), nil)
		_, err := uc.Dispense(context.Background(), validDispenseCommand())
		if !errors.Is(err, ErrInactiveVehicle) {
			t.Fatalf("expected ErrInactiveVehicle, got %v", err)
		}
	})

	t.Run("fuel type mismatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		repo.EXPECT().GetByQRToken(gomock.Any(), "tok-1").Return(activeTestVehicle(), nil)

		uc := NewDispenseUseCase(NewQRBinder(repo), nil)
		cmd := validDispenseCommand()
		cmd.FuelType = entities.FuelTypeDiesel
		_, err := uc.Dispense(context.Background(), cmd)
		if !errors.Is(err, ErrFuelTypeMismatch) {
			t.Fatalf("expected ErrFuelTypeMismatch, got %v", err)
		}
	})

	t.Run("insufficient quota is surfaced unchanged", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		repo.EXPECT().GetByQRToken(gomock.Any(), "tok-1").Return(activeTestVehicle(), nil)
		ledger := mock_interfaces.NewMockIQuotaLedger(ctrl)
		ledger.EXPECT().Reserve(gomock.Any(), gomock.Any()).Return(entities.Transaction{}, &interfaces.InsufficientQuotaError{
			VehicleID:       "veh-1",
			RequestedLiters: decimal.RequireFromString("10"),
			RemainingLiters: decimal.RequireFromString("2"),
		})

		uc := NewDispenseUseCase(NewQRBinder(repo), ledger)
		_, err := uc.Dispense(context.Background(), validDispenseCommand())
		if !errors.Is(err, interfaces.ErrInsufficientQuota) {
			t.Fatalf("expected ErrInsufficientQuota, got %v", err)
		}
		var detail *interfaces.InsufficientQuotaError
		if !errors.As(err, &detail) {
			t.Fatalf("expected InsufficientQuotaError detail, got %v", err)
		}
		if !detail.RemainingLiters.Equal(decimal.RequireFromString("2")) {
			t.Fatalf("expected remaining 2, got %s", detail.RemainingLiters)
		}
	})

	t.Run("success fills the draft and returns the committed record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		repo.EXPECT().GetByQRToken(gomock.Any(), "tok-1").Return(activeTestVehicle(), nil)

		ledger := mock_interfaces.NewMockIQuotaLedger(ctrl)
		ledger.EXPECT().Reserve(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, draft entities.Transaction) (entities.Transaction, error) {
				if draft.ID == "" {
					t.Fatalf("expected a generated transaction id")
				}
				if draft.VehicleID != "veh-1" {
					t.Fatalf("expected veh-1, got %s", draft.VehicleID)
				}
				if draft.Status != entities.TransactionStatusCommitted {
					t.Fatalf("expected COMMITTED draft, got %s", draft.Status)
				}
				if draft.Timestamp.IsZero() {
					t.Fatalf("expected a timestamp on the draft")
				}
				draft.QuotaBefore = decimal.RequireFromString("5")
				draft.QuotaAfter = decimal.RequireFromString("15")
				return draft, nil
			})

		uc := NewDispenseUseCase(NewQRBinder(repo), ledger)
		tx, err := uc.Dispense(context.Background(), validDispenseCommand())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !tx.QuotaAfter.Equal(decimal.RequireFromString("15")) {
			t.Fatalf("expected quota_after 15, got %s", tx.QuotaAfter)
		}
		if tx.StationID != "st-1" || tx.OperatorID != "op-1" {
			t.Fatalf("unexpected parties: %s %s", tx.StationID, tx.OperatorID)
		}
	})
}

func TestDispenseUseCase_QuotaByToken(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		repoCtrl := gomock.NewController(t)
		defer repoCtrl.Finish()
		uc := NewDispenseUseCase(NewQRBinder(mock_interfaces.NewMockIVehicleRepository(repoCtrl)), nil)
		_, err := uc.QuotaByToken(context.Background(), "   ")
		if !errors.Is(err, ErrInvalidQRToken) {
			t.Fatalf("expected ErrInvalidQRToken, got %v", err)
		}
	})

	t.Run("current window", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		repo.EXPECT().GetByQRToken(gomock.Any(), "tok-1").Return(activeTestVehicle(), nil)

		uc := NewDispenseUseCase(NewQRBinder(repo), nil)
		status, err := uc.QuotaByToken(context.Background(), "tok-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !status.RemainingLiters.Equal(decimal.RequireFromString("15")) {
			t.Fatalf("expected 15 remaining, got %s", status.RemainingLiters)
		}
	})

	t.Run("elapsed window shows the full quota again", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		v := activeTestVehicle()
		v.WeekStartDate = entities.WeekStart(time.Now().UTC()).Add(-2 * entities.QuotaWindowLength)
		v.CurrentWeekUsed = decimal.RequireFromString("19")
		repo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		repo.EXPECT().GetByQRToken(gomock.Any(), "tok-1").Return(v, nil)

		uc := NewDispenseUseCase(NewQRBinder(repo), nil)
		status, err := uc.QuotaByToken(context.Background(), "tok-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !status.RemainingLiters.Equal(v.WeeklyQuotaLiters) {
			t.Fatalf("expected full quota %s, got %s", v.WeeklyQuotaLiters, status.RemainingLiters)
		}
	})
}
