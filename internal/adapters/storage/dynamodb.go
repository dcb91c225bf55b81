package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsmiddleware "github.com/aws/aws-sdk-go-v2/aws/middleware"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/smithy-go/middleware"
)

// DynamoClient is the subset of the DynamoDB API used by DynamoStore.
// *dynamodb.Client satisfies it; tests supply a fake.
type DynamoClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore implements ItemStore on top of DynamoDB
type DynamoStore struct {
	client DynamoClient
}

// NewDynamoStore creates a DynamoStore around an existing client
func NewDynamoStore(client DynamoClient) *DynamoStore {
	return &DynamoStore{client: client}
}

// NewDynamoStoreFromConfig loads the default AWS configuration chain and
// builds a client, honouring the optional region and endpoint overrides
func NewDynamoStoreFromConfig(ctx context.Context, cfg *StorageConfig) (*DynamoStore, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	return NewDynamoStore(client), nil
}

// GetItem implements ItemStore.GetItem
func (s *DynamoStore) GetItem(ctx context.Context, table string, key Key) (Item, error) {
	if table == "" {
		return nil, NewStorageError("GetItem", table, ErrTableRequired)
	}

	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		return nil, NewStorageError("GetItem", table, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	return Item(out.Item), nil
}

// PutItem implements ItemStore.PutItem
func (s *DynamoStore) PutItem(ctx context.Context, table string, item Item) (*WriteResult, error) {
	if table == "" {
		return nil, NewStorageError("PutItem", table, ErrTableRequired)
	}

	out, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return nil, NewStorageError("PutItem", table, err)
	}
	return newWriteResult(out.Attributes, out.ResultMetadata), nil
}

// UpdateItem implements ItemStore.UpdateItem. DynamoDB creates the item
// when the key does not exist yet.
func (s *DynamoStore) UpdateItem(ctx context.Context, table string, key Key, update *UpdateRequest) (*WriteResult, error) {
	if table == "" {
		return nil, NewStorageError("UpdateItem", table, ErrTableRequired)
	}
	if update == nil || len(update.Fields) == 0 {
		return nil, NewStorageError("UpdateItem", table, ErrEmptyUpdate)
	}

	values, err := update.Values()
	if err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       key,
		UpdateExpression:          aws.String(update.Expression()),
		ExpressionAttributeNames:  update.Names(),
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}
	return newWriteResult(out.Attributes, out.ResultMetadata), nil
}

// DeleteItem implements ItemStore.DeleteItem
func (s *DynamoStore) DeleteItem(ctx context.Context, table string, key Key) (*WriteResult, error) {
	if table == "" {
		return nil, NewStorageError("DeleteItem", table, ErrTableRequired)
	}

	out, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(table),
		Key:       key,
	})
	if err != nil {
		return nil, NewStorageError("DeleteItem", table, err)
	}
	return newWriteResult(out.Attributes, out.ResultMetadata), nil
}

// ScanAll implements ItemStore.ScanAll with one Scan call. Pagination
// tokens are not followed.
func (s *DynamoStore) ScanAll(ctx context.Context, table string) ([]Item, error) {
	if table == "" {
		return nil, NewStorageError("ScanAll", table, ErrTableRequired)
	}

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(table),
	})
	if err != nil {
		return nil, NewStorageError("ScanAll", table, err)
	}

	items := make([]Item, 0, len(out.Items))
	for _, item := range out.Items {
		items = append(items, Item(item))
	}
	return items, nil
}

// Close implements ItemStore.Close
func (s *DynamoStore) Close() error {
	return nil
}

func newWriteResult(attrs Item, metadata middleware.Metadata) *WriteResult {
	result := &WriteResult{}
	if len(attrs) > 0 {
		result.Attributes = attrs
	}
	if requestID, ok := awsmiddleware.GetRequestIDMetadata(metadata); ok {
		result.RequestID = requestID
	}
	return result
}
