// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"tarefa/internal/service"
	"tarefa/internal/task"
	"tarefa/internal/taskstore"
)

// FakeService is an in-memory implementation of service.Service for testing.
// New tasks get keys "k1", "k2", ... in creation order.
type FakeService struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int
	loaded bool

	// Error injection for testing.
	// LoadErr is returned from Load wrapped in taskstore.ErrStorageRead and
	// empties the list. AddErr and DeleteErr are returned wrapped in
	// taskstore.ErrStorageWrite after the mutation is applied, like a failed
	// persist.
	LoadErr   error
	AddErr    error
	DeleteErr error

	// LoadCalls counts Load invocations.
	LoadCalls int
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates a FakeService holding a task for each text.
func NewFakeService(texts ...string) *FakeService {
	f := &FakeService{}
	for _, text := range texts {
		f.tasks = append(f.tasks, task.Task{Key: f.newKey(), Text: text})
	}
	return f
}

// AddTask appends a task with an explicit key.
func (f *FakeService) AddTask(key, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task.Task{Key: key, Text: text})
}

func (f *FakeService) newKey() string {
	f.nextID++
	return fmt.Sprintf("k%d", f.nextID)
}

// Load implements service.Service.
func (f *FakeService) Load(ctx context.Context) (taskstore.LoadState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoadCalls++
	if f.loaded {
		return taskstore.Loaded, nil
	}
	f.loaded = true
	if f.LoadErr != nil {
		f.tasks = nil
		return taskstore.Empty, fmt.Errorf("%w: %v", taskstore.ErrStorageRead, f.LoadErr)
	}
	if len(f.tasks) == 0 {
		return taskstore.Empty, nil
	}
	return taskstore.Loaded, nil
}

// Tasks implements service.Service.
func (f *FakeService) Tasks() []task.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]task.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Add implements service.Service.
func (f *FakeService) Add(ctx context.Context, text string) (task.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return task.Task{}, taskstore.ErrEmptyText
	}
	t := task.Task{Key: f.newKey(), Text: text}
	f.tasks = append(f.tasks, t)
	if f.AddErr != nil {
		return t, fmt.Errorf("%w: %v", taskstore.ErrStorageWrite, f.AddErr)
	}
	return t, nil
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, key string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	kept := f.tasks[:0:0]
	for _, t := range f.tasks {
		if t.Key != key {
			kept = append(kept, t)
		}
	}
	removed := len(f.tasks) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	f.tasks = kept
	if f.DeleteErr != nil {
		return removed, fmt.Errorf("%w: %v", taskstore.ErrStorageWrite, f.DeleteErr)
	}
	return removed, nil
}

// FakeRemote is a service.Remote returning fixed tasks.
type FakeRemote struct {
	Items []service.RemoteTask
	Err   error
}

var _ service.Remote = (*FakeRemote)(nil)

// OpenTasks implements service.Remote.
func (r *FakeRemote) OpenTasks(ctx context.Context) ([]service.RemoteTask, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Items, nil
}
