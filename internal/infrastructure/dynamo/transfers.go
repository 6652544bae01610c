package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/lumabank/api/internal/domain"
)

// TransferRepo provides typed DynamoDB operations for the transfers table.
type TransferRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewTransferRepo(client *dynamodb.Client, tableName string) *TransferRepo {
	return &TransferRepo{client: client, tableName: tableName}
}

func (r *TransferRepo) Put(ctx context.Context, t *domain.Transfer) error {
	item, err := attributevalue.MarshalMap(t)
	if err != nil {
		return fmt.Errorf("marshal transfer: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *TransferRepo) Get(ctx context.Context, transferID string) (*domain.Transfer, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("transfer_id", transferID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("transfer not found: %w", domain.ErrNotFound)
	}
	var t domain.Transfer
	if err := attributevalue.UnmarshalMap(out.Item, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByUser returns the user's transfers newest first via the
// user_id-created_at GSI.
func (r *TransferRepo) ListByUser(ctx context.Context, userID string, limit int32) ([]domain.Transfer, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-created_at-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	})
	if err != nil {
		return nil, err
	}
	var transfers []domain.Transfer
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &transfers); err != nil {
		return nil, err
	}
	return transfers, nil
}
