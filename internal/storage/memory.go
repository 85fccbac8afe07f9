package storage

import (
	"context"
	"strings"
	"sync"
)

// Memory is an in-process Storage. Values are copied on the way in and out.
type Memory struct {
	mu     sync.RWMutex
	m      map[string][]byte
	closed bool
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{m: make(map[string][]byte)}
}

// Get implements Storage.
func (s *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if strings.TrimSpace(key) == "" {
		return nil, false, wrapErr("get", key, ErrEmptyKey)
	}
	if err := ctx.Err(); err != nil {
		return nil, false, wrapErr("get", key, err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, false, wrapErr("get", key, ErrClosed)
	}
	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements Storage.
func (s *Memory) Set(ctx context.Context, key string, value []byte) error {
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
	s.m[key] = append([]byte(nil), value...)
	return nil
}

// Close implements Storage.
func (s *Memory) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
