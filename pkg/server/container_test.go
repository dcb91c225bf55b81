package server

import (
	"context"
	"net/http"
	"testing"

	"posts-api/internal/config"
	"posts-api/pkg/lambda"
)

func testConfig(storageType string) *config.Config {
	return &config.Config{
		Environment: "test",
		Port:        "8080",
		TableName:   "posts-test",
		Storage: config.StorageConfig{
			Type:       storageType,
			SQLitePath: ":memory:",
		},
		Log: config.LogConfig{Level: "error", Format: "text"},
	}
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	for _, storageType := range []string{"memory", "sqlite"} {
		t.Run(storageType, func(t *testing.T) {
			container, err := NewContainer(context.Background(), testConfig(storageType))
			if err != nil {
				t.Fatalf("Failed to create container: %v", err)
			}

			if container.Store == nil {
				t.Error("Store is nil")
			}
			if container.Posts == nil {
				t.Fatal("Posts handler is nil")
			}
			if container.Logger == nil {
				t.Error("Logger is nil")
			}

			resp := container.Posts.List(context.Background(), &lambda.Request{})
			if resp.StatusCode != http.StatusOK {
				t.Errorf("Expected 200 from List, got %d: %s", resp.StatusCode, resp.Body)
			}

			if err := container.Close(); err != nil {
				t.Errorf("Failed to close container: %v", err)
			}
		})
	}
}

func TestNewContainerUnsupportedStorage(t *testing.T) {
	if _, err := NewContainer(context.Background(), testConfig("redis")); err == nil {
		t.Error("Expected error for unsupported storage type")
	}
}
