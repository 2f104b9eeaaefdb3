package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
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
	defaultVehiclesTableName = "vehicles"
	vehiclesQRTokenIndex     = "qr_token-index"
	vehiclesRegistrationIdx  = "registration_number-index"
)

type vehicleItem struct {
	ID                 string `dynamodbav:"id"`
	RegistrationNumber string `dynamodbav:"registration_number"`
	ChassisNumber      string `dynamodbav:"chassis_number"`
	EngineNumber       string `dynamodbav:"engine_number"`
	FuelType           string `dynamodbav:"fuel_type"`
	WeeklyQuotaLiters  string `dynamodbav:"weekly_quota_liters"`
	CurrentWeekUsed    string `dynamodbav:"current_week_used"`
	WeekStartDate      string `dynamodbav:"week_start_date"`
	QRToken            string `dynamodbav:"qr_token,omitempty"`
	IsActive           bool   `dynamodbav:"is_active"`
	DMTRecordRef       string `dynamodbav:"dmt_record_ref,omitempty"`
	CreatedAt          string `dynamodbav:"created_at"`
	UpdatedAt          string `dynamodbav:"updated_at"`
}

// VehicleDynamoRepository persists Vehicle entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: qr_token-index (PK: qr_token)
//   - GSI: registration_number-index (PK: registration_number)
//
// Registration-number uniqueness is enforced with marker items
// (id = "registration#<plate>") written in the same transact unit as the
// vehicle; the GSI alone cannot enforce it.
//
// Liters are stored as canonical decimal strings; the quota ledger relies on
// that canonical form for its conditional writes.

type VehicleDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IVehicleRepository = (*VehicleDynamoRepository)(nil)

func NewVehicleDynamoRepository(ddb *dynamodb.Client) *VehicleDynamoRepository {
	return &VehicleDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("VEHICLES_TABLE", defaultVehiclesTableName),
	}
}

// Create persists the vehicle together with a registration-number marker item
// (id = "registration#<plate>") in one transact unit. The marker's condition
// is what makes the plate unique at the storage layer: two concurrent
// onboarding calls for the same plate cannot both commit, whatever their ids.
func (r *VehicleDynamoRepository) Create(ctx context.Context, v entities.Vehicle) (entities.Vehicle, error) {
	it := toVehicleItem(v)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Vehicle{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(r.tableName),
					Item:                av,
					ConditionExpression: aws.String("attribute_not_exists(#id)"),
					ExpressionAttributeNames: map[string]string{
						"#id": "id",
					},
				},
			},
			{
				Put: &types.Put{
					TableName: aws.String(r.tableName),
					Item: map[string]types.AttributeValue{
						"id":         &types.AttributeValueMemberS{Value: registrationMarkerID(v.RegistrationNumber)},
						"vehicle_id": &types.AttributeValueMemberS{Value: v.ID},
					},
					ConditionExpression: aws.String("attribute_not_exists(#id)"),
					ExpressionAttributeNames: map[string]string{
						"#id": "id",
					},
				},
			},
		},
	})
	if err != nil {
		if conditionFailedAt(err, 1) {
			return entities.Vehicle{}, interfaces.ErrRegistrationNumberTaken
		}
		return entities.Vehicle{}, err
	}
	return v, nil
}

func registrationMarkerID(registrationNumber string) string {
	return "registration#" + strings.ToLower(registrationNumber)
}

func (r *VehicleDynamoRepository) GetByID(ctx context.Context, id string) (entities.Vehicle, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
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

func (r *VehicleDynamoRepository) GetByQRToken(ctx context.Context, token string) (entities.Vehicle, error) {
	return r.queryOne(ctx, vehiclesQRTokenIndex, "qr_token", token)
}

func (r *VehicleDynamoRepository) GetByRegistrationNumber(ctx context.Context, registrationNumber string) (entities.Vehicle, error) {
	return r.queryOne(ctx, vehiclesRegistrationIdx, "registration_number", registrationNumber)
}

func (r *VehicleDynamoRepository) queryOne(ctx context.Context, index, attr, value string) (entities.Vehicle, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String("#k = :v"),
		ExpressionAttributeNames: map[string]string{
			"#k": attr,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return entities.Vehicle{}, err
	}
	if len(out.Items) == 0 {
		return entities.Vehicle{}, nil
	}

	var it vehicleItem
	if err := attributevalue.UnmarshalMap(out.Items[0], &it); err != nil {
		return entities.Vehicle{}, err
	}
	return fromVehicleItem(it)
}

// BindQRToken attaches the credential only when none is present yet; the
// condition makes a double bind impossible even under concurrent onboarding
// calls.
func (r *VehicleDynamoRepository) BindQRToken(ctx context.Context, vehicleID, token string) (entities.Vehicle, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: vehicleID},
		},
		ConditionExpression: aws.String("attribute_exists(#id) AND attribute_not_exists(#token)"),
		UpdateExpression:    aws.String("SET #token = :token, #updated_at = :now"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#token":      "qr_token",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":token": &types.AttributeValueMemberS{Value: token},
			":now":   &types.AttributeValueMemberS{Value: now},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			existing, getErr := r.GetByID(ctx, vehicleID)
			if getErr != nil {
				return entities.Vehicle{}, getErr
			}
			if existing.ID == "" {
				return entities.Vehicle{}, nil
			}
			return entities.Vehicle{}, interfaces.ErrQRTokenBound
		}
		return entities.Vehicle{}, err
	}

	var it vehicleItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Vehicle{}, err
	}
	return fromVehicleItem(it)
}

func (r *VehicleDynamoRepository) SetActive(ctx context.Context, vehicleID string, active bool) (entities.Vehicle, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: vehicleID},
		},
		ConditionExpression: aws.String("attribute_exists(#id)"),
		UpdateExpression:    aws.String("SET #active = :active, #updated_at = :now"),
		ExpressionAttributeNames: map[string]string{
			"#id":         "id",
			"#active":     "is_active",
			"#updated_at": "updated_at",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: active},
			":now":    &types.AttributeValueMemberS{Value: now},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Vehicle{}, nil
		}
		return entities.Vehicle{}, err
	}

	var it vehicleItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Vehicle{}, err
	}
	return fromVehicleItem(it)
}

func toVehicleItem(v entities.Vehicle) vehicleItem {
	return vehicleItem{
		ID:                 v.ID,
		RegistrationNumber: v.RegistrationNumber,
		ChassisNumber:      v.ChassisNumber,
		EngineNumber:       v.EngineNumber,
		FuelType:           string(v.FuelType),
		WeeklyQuotaLiters:  v.WeeklyQuotaLiters.String(),
		CurrentWeekUsed:    v.CurrentWeekUsed.String(),
		WeekStartDate:      v.WeekStartDate.UTC().Format(time.RFC3339Nano),
		QRToken:            v.QRToken,
		IsActive:           v.IsActive,
		DMTRecordRef:       v.DMTRecordRef,
		CreatedAt:          v.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:          v.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// fromVehicleItem fails loudly on a corrupted row: a quota that does not
// parse must surface as a storage error, not as a zero-liter vehicle.
func fromVehicleItem(it vehicleItem) (entities.Vehicle, error) {
	quota, err := decimal.NewFromString(it.WeeklyQuotaLiters)
	if err != nil {
		return entities.Vehicle{}, fmt.Errorf("vehicle %s: corrupt weekly_quota_liters %q: %w", it.ID, it.WeeklyQuotaLiters, err)
	}
	used, err := decimal.NewFromString(it.CurrentWeekUsed)
	if err != nil {
		return entities.Vehicle{}, fmt.Errorf("vehicle %s: corrupt current_week_used %q: %w", it.ID, it.CurrentWeekUsed, err)
	}
	weekStart, err := time.Parse(time.RFC3339Nano, it.WeekStartDate)
	if err != nil {
		return entities.Vehicle{}, fmt.Errorf("vehicle %s: corrupt week_start_date %q: %w", it.ID, it.WeekStartDate, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, it.CreatedAt)
	if err != nil {
		return entities.Vehicle{}, fmt.Errorf("vehicle %s: corrupt created_at %q: %w", it.ID, it.CreatedAt, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	if err != nil {
		return entities.Vehicle{}, fmt.Errorf("vehicle %s: corrupt updated_at %q: %w", it.ID, it.UpdatedAt, err)
	}
	return entities.Vehicle{
		ID:                 it.ID,
		RegistrationNumber: it.RegistrationNumber,
		ChassisNumber:      it.ChassisNumber,
		EngineNumber:       it.EngineNumber,
		FuelType:           entities.FuelType(it.FuelType),
		WeeklyQuotaLiters:  quota,
		CurrentWeekUsed:    used,
		WeekStartDate:      weekStart,
		QRToken:            it.QRToken,
		IsActive:           it.IsActive,
		DMTRecordRef:       it.DMTRecordRef,
		CreatedAt:          createdAt,
		UpdatedAt:          updatedAt,
	}, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
