package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/storefront-api/internal/domain"
)

// CartRepo stores one cart document per customer email. Mutations always
// rewrite the full document: the cart has a single writer (the customer's
// own session), so read-modify-write within one handler invocation is the
// whole consistency story.
type CartRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCartRepo(client *dynamodb.Client, tableName string) *CartRepo {
	return &CartRepo{client: client, tableName: tableName}
}

func (r *CartRepo) Put(ctx context.Context, c *domain.Cart) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CartRepo) Get(ctx context.Context, email string) (*domain.Cart, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("cart not found: %w", domain.ErrNotFound)
	}
	var c domain.Cart
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CartRepo) Delete(ctx context.Context, email string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("email", email),
	})
	return err
}
