package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"posts-api/internal/adapters/storage"
	"posts-api/internal/config"
	"posts-api/internal/handlers"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Store  storage.ItemStore
	Posts  *handlers.PostHandler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger := config.NewLogger(cfg)

	store, err := storage.NewFactory(logger).Create(ctx, &storage.StorageConfig{
		Type:       cfg.Storage.Type,
		Region:     cfg.Storage.Region,
		Endpoint:   cfg.Storage.Endpoint,
		SQLitePath: cfg.Storage.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create item store: %w", err)
	}

	logger.WithFields(config.GetServerlessConfig().LogFields()).WithFields(logrus.Fields{
		"storage_type": cfg.Storage.Type,
		"table":        cfg.TableName,
	}).Info("Container initialized")

	return &Container{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Posts:  handlers.NewPostHandler(store, cfg.TableNameFunc(), logger),
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			return fmt.Errorf("failed to close item store: %w", err)
		}
	}
	return nil
}
