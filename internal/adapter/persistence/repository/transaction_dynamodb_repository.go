package repository

import (
	"context"
	"fmt"
	"time"

	"fuelquota/internal/domain/entities"
	"fuelquota/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

const (
	defaultTransactionsTableName = "fuel_transactions"
	transactionsVehicleIndex     = "vehicle_id-timestamp-index"
)

type transactionItem struct {
	ID             string `dynamodbav:"id"`
	VehicleID      string `dynamodbav:"vehicle_id"`
	StationID      string `dynamodbav:"station_id"`
	OperatorID     string `dynamodbav:"operator_id"`
	FuelType       string `dynamodbav:"fuel_type"`
	QuantityLiters string `dynamodbav:"quantity_liters"`
	QuotaBefore    string `dynamodbav:"quota_before"`
	QuotaAfter     string `dynamodbav:"quota_after"`
	Timestamp      string `dynamodbav:"timestamp"`
	Status         string `dynamodbav:"status"`
	CancelledAt    string `dynamodbav:"cancelled_at,omitempty"`
}

// TransactionDynamoRepository reads the audit trail in DynamoDB. Writes go
// through the quota ledger so every record commits together with its vehicle
// mutation.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: vehicle_id-timestamp-index (PK: vehicle_id, SK: timestamp)

type TransactionDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.ITransactionRepository = (*TransactionDynamoRepository)(nil)

func NewTransactionDynamoRepository(ddb *dynamodb.Client) *TransactionDynamoRepository {
	return &TransactionDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("TRANSACTIONS_TABLE", defaultTransactionsTableName),
	}
}

func (r *TransactionDynamoRepository) GetByID(ctx context.Context, id string) (entities.Transaction, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Transaction{}, err
	}
	if len(out.Item) == 0 {
		return entities.Transaction{}, nil
	}

	var it transactionItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Transaction{}, err
	}
	return fromTransactionItem(it)
}

func (r *TransactionDynamoRepository) ListByVehicleID(ctx context.Context, vehicleID string, limit int) ([]entities.Transaction, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(transactionsVehicleIndex),
		KeyConditionExpression: aws.String("vehicle_id = :vid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":vid": &types.AttributeValueMemberS{Value: vehicleID},
		},
		// Newest first.
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Transaction, 0, len(out.Items))
	for _, raw := range out.Items {
		var it transactionItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		tx, err := fromTransactionItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, tx)
	}
	return items, nil
}

func toTransactionItem(t entities.Transaction) transactionItem {
	it := transactionItem{
		ID:             t.ID,
		VehicleID:      t.VehicleID,
		StationID:      t.StationID,
		OperatorID:     t.OperatorID,
		FuelType:       string(t.FuelType),
		QuantityLiters: t.QuantityLiters.String(),
		QuotaBefore:    t.QuotaBefore.String(),
		QuotaAfter:     t.QuotaAfter.String(),
		Timestamp:      t.Timestamp.UTC().Format(time.RFC3339Nano),
		Status:         string(t.Status),
	}
	if !t.CancelledAt.IsZero() {
		it.CancelledAt = t.CancelledAt.UTC().Format(time.RFC3339Nano)
	}
	return it
}

// fromTransactionItem fails loudly on a corrupted row; see fromVehicleItem.
func fromTransactionItem(it transactionItem) (entities.Transaction, error) {
	quantity, err := decimal.NewFromString(it.QuantityLiters)
	if err != nil {
		return entities.Transaction{}, fmt.Errorf("transaction %s: corrupt quantity_liters %q: %w", it.ID, it.QuantityLiters, err)
	}
	before, err := decimal.NewFromString(it.QuotaBefore)
	if err != nil {
		return entities.Transaction{}, fmt.Errorf("transaction %s: corrupt quota_before %q: %w", it.ID, it.QuotaBefore, err)
	}
	after, err := decimal.NewFromString(it.QuotaAfter)
	if err != nil {
		return entities.Transaction{}, fmt.Errorf("transaction %s: corrupt quota_after %q: %w", it.ID, it.QuotaAfter, err)
	}
	ts, err := time.Parse(time.RFC3339Nano, it.Timestamp)
	if err != nil {
		return entities.Transaction{}, fmt.Errorf("transaction %s: corrupt timestamp %q: %w", it.ID, it.Timestamp, err)
	}
	t := entities.Transaction{
		ID:             it.ID,
		VehicleID:      it.VehicleID,
		StationID:      it.StationID,
		OperatorID:     it.OperatorID,
		FuelType:       entities.FuelType(it.FuelType),
		QuantityLiters: quantity,
		QuotaBefore:    before,
		QuotaAfter:     after,
		Timestamp:      ts,
		Status:         entities.TransactionStatus(it.Status),
	}
	if it.CancelledAt != "" {
		cancelledAt, err := time.Parse(time.RFC3339Nano, it.CancelledAt)
		if err != nil {
			return entities.Transaction{}, fmt.Errorf("transaction %s: corrupt cancelled_at %q: %w", it.ID, it.CancelledAt, err)
		}
		t.CancelledAt = cancelledAt
	}
	return t, nil
}
