package storage

import (
	"context"
	"fmt"
	"strings"
)

// Options selects and locates a storage backend.
type Options struct {
	// Backend is one of BackendFile, BackendSQLite, BackendMemory.
	// Empty means BackendFile.
	Backend string

	// Path is the directory (file backend) or database file (sqlite backend).
	// Ignored by the memory backend.
	Path string
}

// Open creates the backend described by opts.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendFile, "":
		return NewFile(opts.Path)
	case BackendSQLite:
		return NewSQLite(ctx, opts.Path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, opts.Backend)
	}
}
