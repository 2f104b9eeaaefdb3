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

func committedTestTransaction() entities.Transaction {
	return entities.Transaction{
		ID:             "tx-1",
		VehicleID:      "veh-1",
		StationID:      "st-1",
		OperatorID:     "op-1",
		FuelType:       entities.FuelTypePetrol,
		QuantityLiters: decimal.RequireFromString("10"),
		QuotaBefore:    decimal.RequireFromString("5"),
		QuotaAfter:     decimal.RequireFromString("15"),
		Timestamp:      time.Now().UTC(),
		Status:         entities.TransactionStatusCommitted,
	}
}

func TestTransactionUseCase_Cancel(t *testing.T) {
	t.Run("invalid id", func(t *testing.T) {
		uc := NewTransactionUseCase(nil, nil, nil)
		_, err := uc.Cancel(context.Background(), "   ")
		if !errors.Is(err, ErrInvalidTransactionID) {
			t.Fatalf("expected ErrInvalidTransactionID, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		txRepo := mock_interfaces.NewMockITransactionRepository(ctrl)
		txRepo.EXPECT().GetByID(gomock.Any(), "tx-404").Return(entities.Transaction{}, nil)

		uc := NewTransactionUseCase(txRepo, nil, nil)
		_, err := uc.Cancel(context.Background(), "tx-404")
		if !errors.Is(err, ErrTransactionNotFound) {
			t.Fatalf("expected ErrTransactionNotFound, got %v", err)
		}
	})

	t.Run("already cancelled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tx := committedTestTransaction()
		tx.Status = entities.TransactionStatusCancelled
		txRepo := mock_interfaces.NewMockITransactionRepository(ctrl)
		txRepo.EXPECT().GetByID(gomock.Any(), "tx-1").Return(tx, nil)

		uc := NewTransactionUseCase(txRepo, nil, nil)
		_, err := uc.Cancel(context.Background(), "tx-1")
		if !errors.Is(err, ErrAlreadyCancelled) {
			t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
		}
	})

	t.Run("concurrent cancel loses cleanly", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		txRepo := mock_interfaces.NewMockITransactionRepository(ctrl)
		txRepo.EXPECT().GetByID(gomock.Any(), "tx-1").Return(committedTestTransaction(), nil)
		ledger := mock_interfaces.NewMockIQuotaLedger(ctrl)
		ledger.EXPECT().Release(gomock.Any(), gomock.Any()).Return(entities.Transaction{}, interfaces.ErrTransactionCancelled)

		uc := NewTransactionUseCase(txRepo, nil, ledger)
		_, err := uc.Cancel(context.Background(), "tx-1")
		if !errors.Is(err, ErrAlreadyCancelled) {
			t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
		}
	})

	t.Run("success releases through the ledger", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		tx := committedTestTransaction()
		txRepo := mock_interfaces.NewMockITransactionRepository(ctrl)
		txRepo.EXPECT().GetByID(gomock.Any(), "tx-1").Return(tx, nil)
		ledger := mock_interfaces.NewMockIQuotaLedger(ctrl)
		ledger.EXPECT().Release(gomock.Any(), tx).DoAndReturn(
			func(_ context.Context, in entities.Transaction) (entities.Transaction, error) {
				in.Status = entities.TransactionStatusCancelled
				in.CancelledAt = time.Now().UTC()
				return in, nil
			})

		uc := NewTransactionUseCase(txRepo, nil, ledger)
		cancelled, err := uc.Cancel(context.Background(), "tx-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cancelled.Status != entities.TransactionStatusCancelled {
			t.Fatalf("expected CANCELLED, got %s", cancelled.Status)
		}
		if cancelled.CancelledAt.IsZero() {
			t.Fatalf("expected cancelled_at to be set")
		}
	})
}

func TestTransactionUseCase_HistoryByVehicle(t *testing.T) {
	t.Run("invalid vehicle id", func(t *testing.T) {
		uc := NewTransactionUseCase(nil, nil, nil)
		_, err := uc.HistoryByVehicle(context.Background(), "  ", 10)
		if !errors.Is(err, ErrInvalidVehicleID) {
			t.Fatalf("expected ErrInvalidVehicleID, got %v", err)
		}
	})

	t.Run("vehicle not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		vehRepo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		vehRepo.EXPECT().GetByID(gomock.Any(), "veh-404").Return(entities.Vehicle{}, nil)

		uc := NewTransactionUseCase(nil, vehRepo, nil)
		_, err := uc.HistoryByVehicle(context.Background(), "veh-404", 10)
		if !errors.Is(err, ErrVehicleNotFound) {
			t.Fatalf("expected ErrVehicleNotFound, got %v", err)
		}
	})

	t.Run("limit defaults and caps", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		vehRepo := mock_interfaces.NewMockIVehicleRepository(ctrl)
		vehRepo.EXPECT().GetByID(gomock.Any(), "veh-1").Return(entities.Vehicle{ID: "veh-1"}, nil).Times(2)
		txRepo := mock_interfaces.NewMockITransactionRepository(ctrl)
		txRepo.EXPECT().ListByVehicleID(gomock.Any(), "veh-1", defaultHistoryLimit).Return(nil, nil)
		txRepo.EXPECT().ListByVehicleID(gomock.Any(), "veh-1", maxHistoryLimit).Return(nil, nil)

		uc := NewTransactionUseCase(txRepo, vehRepo, nil)
		if _, err := uc.HistoryByVehicle(context.Background(), "veh-1", 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uc.HistoryByVehicle(context.Background(), "veh-1", 5000); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
