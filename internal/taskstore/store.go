// Package taskstore owns the in-memory task list and its persistence.
//
// The whole list lives under a single storage key as a JSON array of
// {key,text} objects. Every mutation (Add, Delete) rewrites that entry in
// full; there are no partial writes.
package taskstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"tarefa/internal/storage"
	"tarefa/internal/task"
)

// DefaultKey is the storage key holding the serialized task list.
const DefaultKey = "@task"

// Store errors. Validation errors come from the task package.
var (
	// ErrStorageRead means the persisted list could not be read or decoded.
	// The store falls back to an empty list.
	ErrStorageRead = errors.New("storage read failed")

	// ErrStorageWrite means the list could not be written to storage.
	// The in-memory list keeps the mutation.
	ErrStorageWrite = errors.New("storage write failed")

	ErrValidation = task.ErrValidation
	ErrEmptyText  = task.ErrEmptyText
)

// LoadState reports what Load found in storage.
type LoadState int

const (
	// NotLoaded means Load has not run yet.
	NotLoaded LoadState = iota

	// Empty means nothing usable was stored; the list starts empty.
	Empty

	// Loaded means a stored list was decoded.
	Loaded
)

func (s LoadState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	default:
		return "not_loaded"
	}
}

// ChangeFunc observes the list after each change.
// It receives a copy; mutating it does not affect the store.
type ChangeFunc func(tasks []task.Task)

// Store holds the ordered task list.
// Operations are serialized; a Store is safe to share between goroutines
// but is designed for a single writer.
type Store struct {
	kv     storage.Storage
	key    string
	keyFn  task.KeyFunc
	logger *slog.Logger

	mu        sync.Mutex
	tasks     []task.Task
	state     LoadState
	loadErr   error
	observers []ChangeFunc
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the storage key (default DefaultKey).
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithKeyFunc sets how new tasks get their keys (default: UUID).
func WithKeyFunc(fn task.KeyFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.keyFn = fn
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store over kv. The list is empty until Load is called.
func New(kv storage.Storage, opts ...Option) *Store {
	if kv == nil {
		panic("kv cannot be nil")
	}
	keyFn, _ := task.KeyFuncFor(task.KeyUUID)
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		keyFn:  keyFn,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "task_store"))
	return s
}

// OnChange registers fn to be called after Load and after every mutation.
func (s *Store) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Load reads the persisted list on first use.
//
// A missing entry yields Empty with a nil error. An entry that cannot be read
// or decoded also yields Empty, with an error wrapping ErrStorageRead.
// Subsequent calls return the first result without touching storage.
func (s *Store) Load(ctx context.Context) (LoadState, error) {
	s.mu.Lock()
	if s.state != NotLoaded {
		state, err := s.state, s.loadErr
		s.mu.Unlock()
		return state, err
	}

	s.loadLocked(ctx)
	state, err := s.state, s.loadErr
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	return state, err
}

// loadLocked runs the first read. Mutators call it too, so a list that was
// never loaded is not written over the stored one.
func (s *Store) loadLocked(ctx context.Context) {
	tasks, state, err := s.read(ctx)
	s.tasks = tasks
	s.state = state
	s.loadErr = err

	if err != nil {
		s.logger.Warn("stored tasks unreadable, starting empty",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("tasks loaded",
		slog.String("key", s.key),
		slog.String("state", state.String()),
		slog.Int("count", len(tasks)))
}

// ensureLoadedLocked loads on a mutator's behalf. An unreadable entry is
// reported to that mutator, which must then leave storage untouched; later
// calls behave as after an explicit Load.
func (s *Store) ensureLoadedLocked(ctx context.Context) error {
	if s.state != NotLoaded {
		return nil
	}
	s.loadLocked(ctx)
	return s.loadErr
}

func (s *Store) read(ctx context.Context) ([]task.Task, LoadState, error) {
	data, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, Empty, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	if !found {
		return nil, Empty, nil
	}
	tasks, err := Decode(data)
	if err != nil {
		return nil, Empty, fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	return tasks, Loaded, nil
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Add appends a task built from text and persists the list.
//
// Blank text returns ErrEmptyText and changes nothing. If the list was never
// loaded it is loaded first; when that read fails nothing is added and the
// read error is returned. If persisting fails the task stays in the list and
// an error wrapping ErrStorageWrite is returned along with the new task.
func (s *Store) Add(ctx context.Context, text string) (task.Task, error) {
	s.mu.Lock()
	t, err := task.New(text, s.keyFn)
	if err != nil {
		s.mu.Unlock()
		return task.Task{}, err
	}
	if err := s.ensureLoadedLocked(ctx); err != nil {
		snapshot, observers := s.snapshotLocked()
		s.mu.Unlock()
		notify(observers, snapshot)
		return task.Task{}, err
	}
	s.tasks = append(s.tasks, t)
	perr := s.persistLocked(ctx)
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	if perr != nil {
		return t, perr
	}
	s.logger.Debug("task added", slog.String("task_key", t.Key))
	return t, nil
}

// Delete removes every task whose key equals key and returns how many were
// removed. The list is persisted only when something was removed. Like Add,
// it loads a never-loaded list first and fails on an unreadable one.
func (s *Store) Delete(ctx context.Context, key string) (int, error) {
	s.mu.Lock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		snapshot, observers := s.snapshotLocked()
		s.mu.Unlock()
		notify(observers, snapshot)
		return 0, err
	}
	kept := make([]task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Key != key {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	if removed == 0 {
		s.mu.Unlock()
		return 0, nil
	}
	s.tasks = kept
	perr := s.persistLocked(ctx)
	snapshot, observers := s.snapshotLocked()
	s.mu.Unlock()

	notify(observers, snapshot)
	if perr != nil {
		return removed, perr
	}
	s.logger.Debug("tasks deleted",
		slog.String("task_key", key),
		slog.Int("removed", removed))
	return removed, nil
}

// Persist writes the full current list to storage. A list that was never
// loaded is loaded first, and an unreadable entry is left in place.
func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(ctx); err != nil {
		return err
	}
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	data, err := Encode(s.tasks)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		s.logger.Error("failed to persist tasks",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	s.logger.Debug("tasks persisted",
		slog.String("key", s.key),
		slog.Int("count", len(s.tasks)))
	return nil
}

func (s *Store) snapshotLocked() ([]task.Task, []ChangeFunc) {
	if len(s.observers) == 0 {
		return nil, nil
	}
	observers := make([]ChangeFunc, len(s.observers))
	copy(observers, s.observers)
	return cloneTasks(s.tasks), observers
}

func notify(observers []ChangeFunc, tasks []task.Task) {
	for _, fn := range observers {
		fn(cloneTasks(tasks))
	}
}

func cloneTasks(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	copy(out, tasks)
	return out
}

// Close releases the underlying storage.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Encode serializes tasks in the persisted format: a compact JSON array,
// "[]" when empty.
// Characters such as & and < are written as-is.
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(tasks); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses the persisted format. The value must be a JSON array of
// valid task records; anything else is an error.
func Decode(data []byte) ([]task.Task, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var tasks []task.Task
	if err := dec.Decode(&tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("decode tasks: trailing content")
	}
	if tasks == nil {
		return nil, errors.New("decode tasks: value is not an array")
	}
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("decode tasks: record %d: %w", i, err)
		}
	}
	return tasks, nil
}
