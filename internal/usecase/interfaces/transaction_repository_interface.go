package interfaces

import (
	"context"

	"fuelquota/internal/domain/entities"
)

// ITransactionRepository is the read side of the audit trail. Writes happen
// exclusively through IQuotaLedger so that every record stays paired with the
// vehicle mutation it audits.

type ITransactionRepository interface {
	GetByID(ctx context.Context, id string) (entities.Transaction, error)

	// ListByVehicleID returns up to limit transactions, newest first. Each
	// call re-reads from storage; there is no cursor to resume.
	ListByVehicleID(ctx context.Context, vehicleID string, limit int) ([]entities.Transaction, error)
}
