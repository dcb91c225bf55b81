package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// StorageType represents the type of store implementation
type StorageType string

const (
	StorageTypeDynamoDB StorageType = "dynamodb"
	StorageTypeSQLite   StorageType = "sqlite"
	StorageTypeMemory   StorageType = "memory"
)

// Factory creates ItemStore instances based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new store factory
func NewFactory(logger *logrus.Logger) *Factory {
	if logger == nil {
		logger = logrus.New()
	}
	return &Factory{
		logger: logger,
	}
}

// Create creates an ItemStore instance based on the provided configuration
func (f *Factory) Create(ctx context.Context, config *StorageConfig) (ItemStore, error) {
	if config == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	storageType := StorageType(strings.ToLower(config.Type))

	var store ItemStore
	var err error

	switch storageType {
	case StorageTypeDynamoDB, "":
		store, err = NewDynamoStoreFromConfig(ctx, config)
	case StorageTypeSQLite:
		store, err = NewSQLiteStore(config.SQLitePath, f.logger)
	case StorageTypeMemory:
		store = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Type)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create %s storage: %w", config.Type, err)
	}

	f.logger.WithField("storage_type", storageType).Debug("Item store created")
	return store, nil
}
