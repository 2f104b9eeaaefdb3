package interfaces

import (
	"context"
	"errors"
	"fmt"

	"fuelquota/internal/domain/entities"

	"github.com/shopspring/decimal"
)

var (
	// ErrInsufficientQuota is returned when a reservation exceeds the liters
	// left in the vehicle's current window. No state changes.
	ErrInsufficientQuota = errors.New("insufficient weekly quota")

	// ErrConcurrencyConflict is returned after the bounded retry budget for
	// conditional writes is exhausted. The whole operation had no effect and
	// may be retried by the caller.
	ErrConcurrencyConflict = errors.New("concurrent quota update conflict")

	// ErrTransactionCancelled is returned by Release when the transaction has
	// already transitioned to CANCELLED; the credit was applied exactly once.
	ErrTransactionCancelled = errors.New("transaction already cancelled")

	// ErrVehicleGone is returned when the vehicle referenced by a ledger
	// operation does not exist.
	ErrVehicleGone = errors.New("vehicle not found")

	// ErrVehicleInactive is returned when the vehicle was deactivated between
	// the caller's checks and the ledger write.
	ErrVehicleInactive = errors.New("vehicle is deactivated")

	// ErrQRTokenBound is returned by BindQRToken when the vehicle already
	// carries a credential.
	ErrQRTokenBound = errors.New("vehicle already has a qr token")

	// ErrRegistrationNumberTaken is returned by Create when another vehicle
	// already holds the registration number. Enforced at the storage layer so
	// concurrent onboarding calls cannot both persist.
	ErrRegistrationNumberTaken = errors.New("registration number already registered")

	// ErrNonPositiveQuantity is returned by Reserve for a zero or negative
	// draft quantity, which would otherwise credit the counter.
	ErrNonPositiveQuantity = errors.New("reserve quantity must be positive")
)

// InsufficientQuotaError carries the shortfall detail of a rejected
// reservation. Unwraps to ErrInsufficientQuota.
type InsufficientQuotaError struct {
	VehicleID       string
	RequestedLiters decimal.Decimal
	RemainingLiters decimal.Decimal
}

func (e *InsufficientQuotaError) Error() string {
	return fmt.Sprintf("insufficient weekly quota: vehicle %s requested %s with %s remaining",
		e.VehicleID, e.RequestedLiters, e.RemainingLiters)
}

func (e *InsufficientQuotaError) Unwrap() error {
	return ErrInsufficientQuota
}

// IQuotaLedger is the invariant-enforcing write side of the quota state.
//
// Both operations are atomic units: the vehicle mutation and the audit
// transaction commit together or not at all. Contention is scoped to a single
// vehicle; operations on distinct vehicles never serialize against each other.

type IQuotaLedger interface {
	// Reserve checks and consumes headroom in one indivisible step. The draft
	// carries id, parties, fuel type, quantity and timestamp; the ledger
	// normalizes the quota window at draft.Timestamp, validates headroom,
	// fills QuotaBefore/QuotaAfter and persists the committed transaction
	// together with the vehicle update. Drafts with a non-positive quantity
	// are rejected with ErrNonPositiveQuantity.
	Reserve(ctx context.Context, draft entities.Transaction) (entities.Transaction, error)

	// Release cancels a committed transaction and credits its quantity back
	// to the vehicle's window. Idempotent per transaction id: a transaction
	// that is already CANCELLED yields ErrTransactionCancelled and no credit.
	// The credit is skipped (status still flips) when the window the
	// transaction was committed in has already rolled over.
	Release(ctx context.Context, tx entities.Transaction) (entities.Transaction, error)
}
