package repository

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// Conditional writes are retried a small fixed number of times before the
// conflict is surfaced to the caller as retryable.
const reserveMaxAttempts = 3

// QuotaLedgerDynamoRepository enforces the weekly quota invariant at the
// storage layer.
//
// A reservation is an optimistic compare-and-set: the vehicle is read, the
// quota window normalized, headroom validated, and then a TransactWriteItems
// call commits the vehicle update and the audit transaction as one indivisible
// unit. The update's condition pins the exact used-liters and week-start
// values that were observed, so two terminals racing on the same vehicle can
// never both consume the same headroom (the classic lost-update anomaly) —
// the loser's condition fails and it re-reads. Vehicles contend only on their
// own item; traffic on other vehicles is unaffected.

type QuotaLedgerDynamoRepository struct {
	ddb               *dynamodb.Client
	vehiclesTable     string
	transactionsTable string
}

var _ interfaces.IQuotaLedger = (*QuotaLedgerDynamoRepository)(nil)

func NewQuotaLedgerDynamoRepository(ddb *dynamodb.Client) *QuotaLedgerDynamoRepository {
	return &QuotaLedgerDynamoRepository{
		ddb:               ddb,
		vehiclesTable:     getenvDefault("VEHICLES_TABLE", defaultVehiclesTableName),
		transactionsTable: getenvDefault("TRANSACTIONS_TABLE", defaultTransactionsTableName),
	}
}

func (r *QuotaLedgerDynamoRepository) Reserve(ctx context.Context, draft entities.Transaction) (entities.Transaction, error) {
	if draft.QuantityLiters.Sign() <= 0 {
		return entities.Transaction{}, interfaces.ErrNonPositiveQuantity
	}
	for attempt := 1; attempt <= reserveMaxAttempts; attempt++ {
		v, err := r.getVehicle(ctx, draft.VehicleID)
		if err != nil {
			return entities.Transaction{}, err
		}
		if v.ID == "" {
			return entities.Transaction{}, interfaces.ErrVehicleGone
		}
		if !v.IsActive {
			return entities.Transaction{}, interfaces.ErrVehicleInactive
		}

		weekStart, used := v.NormalizedWindow(draft.Timestamp)
		remaining := v.WeeklyQuotaLiters.Sub(used)
		if draft.QuantityLiters.GreaterThan(remaining) {
			return entities.Transaction{}, &interfaces.InsufficientQuotaError{
				VehicleID:       v.ID,
				RequestedLiters: draft.QuantityLiters,
				RemainingLiters: remaining,
			}
		}

		tx := draft
		tx.QuotaBefore = used
		tx.QuotaAfter = used.Add(draft.QuantityLiters)

		txAV, err := attributevalue.MarshalMap(toTransactionItem(tx))
		if err != nil {
			return entities.Transaction{}, err
		}

		now := time.Now().UTC().Format(time.RFC3339Nano)
		_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				{
					Update: &types.Update{
						TableName: aws.String(r.vehiclesTable),
						Key: map[string]types.AttributeValue{
							"id": &types.AttributeValueMemberS{Value: v.ID},
						},
						UpdateExpression: aws.String("SET #used = :used, #ws = :ws, #updated_at = :now"),
						// Pin the observed pre-write state: if anything moved
						// the used liters or the window since our read, the
						// whole transact unit is rejected.
						ConditionExpression: aws.String("attribute_exists(#id) AND #used = :prev_used AND #ws = :prev_ws AND #active = :active"),
						ExpressionAttributeNames: map[string]string{
							"#id":         "id",
							"#used":       "current_week_used",
							"#ws":         "week_start_date",
							"#updated_at": "updated_at",
							"#active":     "is_active",
						},
						ExpressionAttributeValues: map[string]types.AttributeValue{
							":used":      &types.AttributeValueMemberS{Value: tx.QuotaAfter.String()},
							":ws":        &types.AttributeValueMemberS{Value: weekStart.Format(time.RFC3339Nano)},
							":now":       &types.AttributeValueMemberS{Value: now},
							":prev_used": &types.AttributeValueMemberS{Value: v.CurrentWeekUsed.String()},
							":prev_ws":   &types.AttributeValueMemberS{Value: v.WeekStartDate.Format(time.RFC3339Nano)},
							":active":    &types.AttributeValueMemberBOOL{Value: true},
						},
					},
				},
				{
					Put: &types.Put{
						TableName:           aws.String(r.transactionsTable),
						Item:                txAV,
						ConditionExpression: aws.String("attribute_not_exists(#id)"),
						ExpressionAttributeNames: map[string]string{
							"#id": "id",
						},
					},
				},
			},
		})
		if err == nil {
			return tx, nil
		}
		if conditionFailedAt(err, 0) || isTransactConflict(err) {
			log.Printf("[quota][ledger] reserve contention vehicle_id=%s attempt=%d", v.ID, attempt)
			if err := sleepBackoff(ctx, attempt); err != nil {
				return entities.Transaction{}, err
			}
			continue
		}
		return entities.Transaction{}, err
	}
	return entities.Transaction{}, interfaces.ErrConcurrencyConflict
}

func (r *QuotaLedgerDynamoRepository) Release(ctx context.Context, tx entities.Transaction) (entities.Transaction, error) {
	for attempt := 1; attempt <= reserveMaxAttempts; attempt++ {
		v, err := r.getVehicle(ctx, tx.VehicleID)
		if err != nil {
			return entities.Transaction{}, err
		}
		if v.ID == "" {
			return entities.Transaction{}, interfaces.ErrVehicleGone
		}

		// The credit only applies while the window the transaction was
		// committed in is still the active one; after a rollover the used
		// counter no longer reflects that consumption.
		newUsed := v.CurrentWeekUsed
		if entities.WindowContains(v.WeekStartDate, tx.Timestamp) {
			newUsed = v.CurrentWeekUsed.Sub(tx.QuantityLiters)
			if newUsed.Sign() < 0 {
				newUsed = decimal.Zero
			}
		}

		cancelledAt := time.Now().UTC()
		cancelled := tx
		cancelled.Status = entities.TransactionStatusCancelled
		cancelled.CancelledAt = cancelledAt

		now := cancelledAt.Format(time.RFC3339Nano)
		_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
			TransactItems: []types.TransactWriteItem{
				{
					Update: &types.Update{
						TableName: aws.String(r.transactionsTable),
						Key: map[string]types.AttributeValue{
							"id": &types.AttributeValueMemberS{Value: tx.ID},
						},
						UpdateExpression: aws.String("SET #status = :cancelled, #cancelled_at = :now"),
						// The status condition is what makes cancel idempotent:
						// only the first transition can credit the ledger.
						ConditionExpression: aws.String("attribute_exists(#id) AND #status = :committed"),
						ExpressionAttributeNames: map[string]string{
							"#id":           "id",
							"#status":       "status",
							"#cancelled_at": "cancelled_at",
						},
						ExpressionAttributeValues: map[string]types.AttributeValue{
							":cancelled": &types.AttributeValueMemberS{Value: string(entities.TransactionStatusCancelled)},
							":committed": &types.AttributeValueMemberS{Value: string(entities.TransactionStatusCommitted)},
							":now":       &types.AttributeValueMemberS{Value: now},
						},
					},
				},
				{
					Update: &types.Update{
						TableName: aws.String(r.vehiclesTable),
						Key: map[string]types.AttributeValue{
							"id": &types.AttributeValueMemberS{Value: v.ID},
						},
						UpdateExpression:    aws.String("SET #used = :used, #updated_at = :now"),
						ConditionExpression: aws.String("attribute_exists(#id) AND #used = :prev_used AND #ws = :prev_ws"),
						ExpressionAttributeNames: map[string]string{
							"#id":         "id",
							"#used":       "current_week_used",
							"#ws":         "week_start_date",
							"#updated_at": "updated_at",
						},
						ExpressionAttributeValues: map[string]types.AttributeValue{
							":used":      &types.AttributeValueMemberS{Value: newUsed.String()},
							":now":       &types.AttributeValueMemberS{Value: now},
							":prev_used": &types.AttributeValueMemberS{Value: v.CurrentWeekUsed.String()},
							":prev_ws":   &types.AttributeValueMemberS{Value: v.WeekStartDate.Format(time.RFC3339Nano)},
						},
					},
				},
			},
		})
		if err == nil {
			return cancelled, nil
		}
		if conditionFailedAt(err, 0) {
			return entities.Transaction{}, interfaces.ErrTransactionCancelled
		}
		if conditionFailedAt(err, 1) || isTransactConflict(err) {
			log.Printf("[quota][ledger] release contention vehicle_id=%s transaction_id=%s attempt=%d", v.ID, tx.ID, attempt)
			if err := sleepBackoff(ctx, attempt); err != nil {
				return entities.Transaction{}, err
			}
			continue
		}
		return entities.Transaction{}, err
	}
	return entities.Transaction{}, interfaces.ErrConcurrencyConflict
}

func (r *QuotaLedgerDynamoRepository) getVehicle(ctx context.Context, id string) (entities.Vehicle, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.vehiclesTable),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Vehicle{}, err
	}
	if len(out.Item) == 0 {
		return entities.Vehicle{}, nil
	}

	var it vehicleItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Vehicle{}, err
	}
	return fromVehicleItem(it)
}

// conditionFailedAt reports whether item i of a cancelled transact unit was
// the one whose condition expression failed.
func conditionFailedAt(err error, i int) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	if i >= len(tce.CancellationReasons) {
		return false
	}
	code := tce.CancellationReasons[i].Code
	return code != nil && *code == "ConditionalCheckFailed"
}

func isTransactConflict(err error) bool {
	var conflict *types.TransactionConflictException
	return errors.As(err, &conflict)
}

func sleepBackoff(ctx context.Context, attempt int) error {
	delay := time.Duration(20*attempt+rand.Intn(25)) * time.Millisecond
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
