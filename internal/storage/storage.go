// Package storage provides the key-value persistence used by the task store.
//
// A Storage holds opaque byte values under string keys. The task store keeps
// its whole list in a single entry, so backends only need whole-value reads
// and whole-value replacement.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrEmptyKey is returned when a blank key is used.
	ErrEmptyKey = errors.New("storage key cannot be empty")

	// ErrClosed is returned when a closed storage is used.
	ErrClosed = errors.New("storage is closed")
)

// Storage is a minimal key-value store.
type Storage interface {
	// Get returns the value stored under key.
	// found is false (with a nil error) when the key has never been set.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Close releases backend resources.
	Close() error
}

// StorageError adds the failing operation and key to a backend error.
type StorageError struct {
	Op  string // "get" or "set"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrapErr(op, key string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Key: key, Err: err}
}
