package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/storefront-api/internal/domain"
)

// CustomerRepo provides typed DynamoDB operations for the customers table.
// One profile per email; Put overwrites, matching the original upsert
// semantics of the details form.
type CustomerRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCustomerRepo(client *dynamodb.Client, tableName string) *CustomerRepo {
	return &CustomerRepo{client: client, tableName: tableName}
}

func (r *CustomerRepo) Put(ctx context.Context, p *domain.CustomerProfile) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal customer profile: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CustomerRepo) Get(ctx context.Context, email string) (*domain.CustomerProfile, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("customer profile not found: %w", domain.ErrNotFound)
	}
	var p domain.CustomerProfile
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CustomerRepo) Update(ctx context.Context, email string, updates map[string]interface{}) error {
	updates[fieldUpdatedAt] = time.Now().UTC().Format(time.RFC3339)
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("email", email),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}
