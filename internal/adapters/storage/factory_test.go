package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestFactory(t *testing.T) {
	ctx := context.Background()
	factory := NewFactory(nil)

	t.Run("CreateMemoryStorage", func(t *testing.T) {
		store, err := factory.Create(ctx, &StorageConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("Failed to create memory storage: %v", err)
		}
		defer store.Close()

		if _, ok := store.(*MemoryStore); !ok {
			t.Errorf("expected *MemoryStore, got %T", store)
		}
	})

	t.Run("CreateSQLiteStorage", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "posts.db")

		store, err := factory.Create(ctx, &StorageConfig{Type: "SQLite", SQLitePath: path})
		if err != nil {
			t.Fatalf("Failed to create sqlite storage: %v", err)
		}
		defer store.Close()

		if _, err := store.PutItem(ctx, testTable, keyItem("p1")); err != nil {
			t.Fatalf("PutItem failed: %v", err)
		}
		items, err := store.ScanAll(ctx, testTable)
		if err != nil {
			t.Fatalf("ScanAll failed: %v", err)
		}
		if len(items) != 1 {
			t.Errorf("expected 1 item, got %d", len(items))
		}
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		if _, err := factory.Create(ctx, &StorageConfig{Type: "redis"}); err == nil {
			t.Error("expected error for unsupported storage type")
		}
	})

	t.Run("NilConfig", func(t *testing.T) {
		if _, err := factory.Create(ctx, nil); err == nil {
			t.Error("expected error for nil config")
		}
	})
}

// keyItem is a minimal item holding only its key
func keyItem(postID string) Item {
	return Item(KeyFor(postID))
}
