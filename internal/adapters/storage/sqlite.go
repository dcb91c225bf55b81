package storage

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements ItemStore on a local SQLite file. Items are kept
// as JSON documents keyed by (table, postId).
type SQLiteStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewSQLiteStore opens the database at path and applies pending migrations.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = logrus.New()
	}

	dsn := ":memory:"
	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	logger.WithField("path", path).Info("Opening SQLite item store")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// SQLite works best with a single connection; it also keeps ":memory:" shared
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}
	defer source.Close()

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("Item store schema is up to date")

	return nil
}

// GetItem implements ItemStore.GetItem
func (s *SQLiteStore) GetItem(ctx context.Context, table string, key Key) (Item, error) {
	if table == "" {
		return nil, NewStorageError("GetItem", table, ErrTableRequired)
	}
	postID, err := postIDOf(key)
	if err != nil {
		return nil, NewStorageError("GetItem", table, err)
	}

	fields, err := s.load(ctx, s.db, table, postID)
	if err != nil {
		return nil, NewStorageError("GetItem", table, err)
	}
	if fields == nil {
		return nil, nil
	}

	item, err := FromPlain(fields)
	if err != nil {
		return nil, NewStorageError("GetItem", table, err)
	}
	return item, nil
}

// PutItem implements ItemStore.PutItem
func (s *SQLiteStore) PutItem(ctx context.Context, table string, item Item) (*WriteResult, error) {
	if table == "" {
		return nil, NewStorageError("PutItem", table, ErrTableRequired)
	}
	postID, err := postIDOf(item)
	if err != nil {
		return nil, NewStorageError("PutItem", table, err)
	}

	fields, err := ToPlain(item)
	if err != nil {
		return nil, NewStorageError("PutItem", table, err)
	}
	if err := s.save(ctx, s.db, table, postID, fields); err != nil {
		return nil, NewStorageError("PutItem", table, err)
	}
	return &WriteResult{}, nil
}

// UpdateItem implements ItemStore.UpdateItem, creating the item when missing
func (s *SQLiteStore) UpdateItem(ctx context.Context, table string, key Key, update *UpdateRequest) (*WriteResult, error) {
	if table == "" {
		return nil, NewStorageError("UpdateItem", table, ErrTableRequired)
	}
	postID, err := postIDOf(key)
	if err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}
	if err := checkUpdate(update); err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}
	defer tx.Rollback()

	fields, err := s.load(ctx, tx, table, postID)
	if err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}
	if fields == nil {
		fields = map[string]interface{}{KeyAttribute: postID}
	}
	for _, f := range update.Fields {
		fields[f.Name] = f.Value
	}

	if err := s.save(ctx, tx, table, postID, fields); err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, NewStorageError("UpdateItem", table, err)
	}
	return &WriteResult{}, nil
}

// DeleteItem implements ItemStore.DeleteItem
func (s *SQLiteStore) DeleteItem(ctx context.Context, table string, key Key) (*WriteResult, error) {
	if table == "" {
		return nil, NewStorageError("DeleteItem", table, ErrTableRequired)
	}
	postID, err := postIDOf(key)
	if err != nil {
		return nil, NewStorageError("DeleteItem", table, err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM items WHERE table_name = ? AND post_id = ?`, table, postID)
	if err != nil {
		return nil, NewStorageError("DeleteItem", table, err)
	}
	return &WriteResult{}, nil
}

// ScanAll implements ItemStore.ScanAll
func (s *SQLiteStore) ScanAll(ctx context.Context, table string) ([]Item, error) {
	if table == "" {
		return nil, NewStorageError("ScanAll", table, ErrTableRequired)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT attributes FROM items WHERE table_name = ? ORDER BY post_id`, table)
	if err != nil {
		return nil, NewStorageError("ScanAll", table, err)
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, NewStorageError("ScanAll", table, err)
		}
		fields := map[string]interface{}{}
		if err := json.Unmarshal([]byte(raw), &fields); err != nil {
			return nil, NewStorageError("ScanAll", table, err)
		}
		item, err := FromPlain(fields)
		if err != nil {
			return nil, NewStorageError("ScanAll", table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("ScanAll", table, err)
	}
	return items, nil
}

// Close implements ItemStore.Close
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// load returns nil fields when the row does not exist
func (s *SQLiteStore) load(ctx context.Context, q queryer, table, postID string) (map[string]interface{}, error) {
	var raw string
	err := q.QueryRowContext(ctx,
		`SELECT attributes FROM items WHERE table_name = ? AND post_id = ?`, table, postID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("corrupt item %s/%s: %w", table, postID, err)
	}
	return fields, nil
}

func (s *SQLiteStore) save(ctx context.Context, q queryer, table, postID string, fields map[string]interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO items (table_name, post_id, attributes, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (table_name, post_id)
		DO UPDATE SET attributes = excluded.attributes, updated_at = excluded.updated_at`,
		table, postID, string(raw))
	return err
}
