package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// KeyAttribute is the partition key of the posts table
const KeyAttribute = "postId"

// Item is a stored post in the store's native attribute encoding
type Item map[string]types.AttributeValue

// Key identifies a single item
type Key map[string]types.AttributeValue

// KeyFor builds the primary key for a post
func KeyFor(postID string) Key {
	return Key{KeyAttribute: &types.AttributeValueMemberS{Value: postID}}
}

// FieldUpdate assigns Value to the attribute Name
type FieldUpdate struct {
	Name  string
	Value interface{}
}

// UpdateRequest is an ordered partial update against a single item.
// Field i is bound to the placeholders #key<i> and :value<i>.
type UpdateRequest struct {
	Fields []FieldUpdate
}

// Expression renders the SET expression, e.g. "SET #key0 = :value0, #key1 = :value1"
func (u *UpdateRequest) Expression() string {
	parts := make([]string, len(u.Fields))
	for i := range u.Fields {
		parts[i] = fmt.Sprintf("%s = %s", namePlaceholder(i), valuePlaceholder(i))
	}
	return "SET " + strings.Join(parts, ", ")
}

// Names returns the attribute name placeholders
func (u *UpdateRequest) Names() map[string]string {
	names := make(map[string]string, len(u.Fields))
	for i, f := range u.Fields {
		names[namePlaceholder(i)] = f.Name
	}
	return names
}

// Values returns the attribute value placeholders in native encoding
func (u *UpdateRequest) Values() (map[string]types.AttributeValue, error) {
	values := make(map[string]types.AttributeValue, len(u.Fields))
	for i, f := range u.Fields {
		av, err := marshalValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode value for %q: %w", f.Name, err)
		}
		values[valuePlaceholder(i)] = av
	}
	return values, nil
}

func namePlaceholder(i int) string  { return fmt.Sprintf("#key%d", i) }
func valuePlaceholder(i int) string { return fmt.Sprintf(":value%d", i) }

// ItemStore provides the key-value operations the post handlers rely on.
// Every call addresses a single table and performs exactly one request.
type ItemStore interface {
	// GetItem returns the item for key, or nil when it does not exist
	GetItem(ctx context.Context, table string, key Key) (Item, error)

	// PutItem writes item, replacing any existing item with the same key
	PutItem(ctx context.Context, table string, item Item) (*WriteResult, error)

	// UpdateItem applies a partial update, creating the item if it is missing
	UpdateItem(ctx context.Context, table string, key Key, update *UpdateRequest) (*WriteResult, error)

	// DeleteItem removes the item for key. Deleting a missing key is not an error.
	DeleteItem(ctx context.Context, table string, key Key) (*WriteResult, error)

	// ScanAll reads every item of the table in a single request
	ScanAll(ctx context.Context, table string) ([]Item, error)

	// Close releases any resources held by the store
	Close() error
}

// StorageConfig selects and configures a store backend
type StorageConfig struct {
	Type       string `json:"type" yaml:"type"` // "dynamodb", "sqlite" or "memory"
	Region     string `json:"region" yaml:"region"`
	Endpoint   string `json:"endpoint" yaml:"endpoint"` // optional DynamoDB endpoint override
	SQLitePath string `json:"sqlite_path" yaml:"sqlite_path"`
}
