package storage

import (
	"errors"
	"fmt"
)

// Common storage error types
var (
	ErrTableRequired = errors.New("table name is required")
	ErrMissingKey    = errors.New("item key attribute postId must be a string")
	ErrKeyUpdate     = errors.New("cannot update key attribute postId")
	ErrEmptyUpdate   = errors.New("update must assign at least one attribute")
)

// StorageError represents a failed store call with additional context
type StorageError struct {
	Op    string // Operation that failed (e.g., "GetItem", "ScanAll")
	Table string // Table the operation addressed
	Err   error  // Underlying error
}

func (e *StorageError) Error() string {
	if e.Table != "" {
		return fmt.Sprintf("storage %s operation failed on table '%s': %v", e.Op, e.Table, e.Err)
	}
	return fmt.Sprintf("storage %s operation failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// NewStorageError creates a new StorageError
func NewStorageError(op, table string, err error) *StorageError {
	return &StorageError{
		Op:    op,
		Table: table,
		Err:   err,
	}
}

// IsStorageError returns true if err came from a store call
func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}

// IsMissingKey returns true if the item or key lacked a usable postId
func IsMissingKey(err error) bool {
	return errors.Is(err, ErrMissingKey)
}
