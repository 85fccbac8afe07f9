package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File stores each key as a JSON file inside a directory:
//
//	<dir>/<escaped-key>.json
//
// Writes are atomic: data goes to a temp file in the same directory, is
// synced, and is renamed over the previous value.
type File struct {
	dir string

	mu     sync.Mutex
	closed bool
}

// NewFile creates a file-backed storage rooted at dir.
// The directory is created lazily on the first Set.
func NewFile(dir string) (*File, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("storage dir is required")
	}
	return &File{dir: dir}, nil
}

// Dir returns the storage directory.
func (s *File) Dir() string {
	return s.dir
}

// Path returns the file path used for key.
func (s *File) Path(key string) string {
	return filepath.Join(s.dir, escapeKey(key)+".json")
}

// Get implements Storage.
func (s *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, wrapErr("get", key, ErrEmptyKey)
	}
	if err := ctx.Err(); err != nil {
		return nil, false, wrapErr("get", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, wrapErr("get", key, ErrClosed)
	}

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, wrapErr("get", key, err)
	}
	return data, true, nil
}

// Set implements Storage.
func (s *File) Set(ctx context.Context, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return wrapErr("set", key, ErrEmptyKey)
	}
	if err := ctx.Err(); err != nil {
		return wrapErr("set", key, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return wrapErr("set", key, ErrClosed)
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return wrapErr("set", key, fmt.Errorf("ensure dir: %w", err))
	}
	if err := writeFileAtomic(s.Path(key), value, 0o600); err != nil {
		return wrapErr("set", key, err)
	}
	return nil
}

// Close implements Storage.
func (s *File) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// escapeKey turns a key into a single safe path element.
func escapeKey(key string) string {
	esc := url.PathEscape(key)
	if strings.HasPrefix(esc, ".") {
		esc = "%2E" + esc[1:]
	}
	return esc
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return syncDir(dir)
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
