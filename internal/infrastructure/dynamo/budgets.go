package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/lumabank/api/internal/domain"
)

// BudgetRepo manages per-user category budgets.
// PK: user_id, SK: category.
type BudgetRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewBudgetRepo(client *dynamodb.Client, tableName string) *BudgetRepo {
	return &BudgetRepo{client: client, tableName: tableName}
}

func (r *BudgetRepo) Put(ctx context.Context, b *domain.Budget) error {
	item, err := attributevalue.MarshalMap(b)
	if err != nil {
		return fmt.Errorf("marshal budget: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *BudgetRepo) Get(ctx context.Context, userID, category string) (*domain.Budget, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "category", category),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("budget not found: %w", domain.ErrNotFound)
	}
	var b domain.Budget
	if err := attributevalue.UnmarshalMap(out.Item, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepo) ListByUser(ctx context.Context, userID string) ([]domain.Budget, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var budgets []domain.Budget
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &budgets); err != nil {
		return nil, err
	}
	return budgets, nil
}

// AddSpent atomically increments the spent counter for a category.
// Missing budgets are ignored: spending without a budget is not an error.
func (r *BudgetRepo) AddSpent(ctx context.Context, userID, category string, amount int64) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey("user_id", userID, "category", category),
		UpdateExpression:    aws.String("SET " + fieldSpent + " = " + fieldSpent + " + :amt, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(category)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amt": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", amount)},
			":now": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	})
	if err != nil {
		var ccfe *types.ConditionalCheckFailedException
		if errors.As(err, &ccfe) {
			return nil
		}
		return err
	}
	return nil
}

func (r *BudgetRepo) Delete(ctx context.Context, userID, category string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey("user_id", userID, "category", category),
	})
	return err
}
