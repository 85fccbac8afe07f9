// Package service defines the interfaces commands depend on.
package service

import (
	"context"
	"errors"

	"tarefa/internal/task"
	"tarefa/internal/taskstore"
)

// Service is the task list as seen by the presentation layer.
// taskstore.Store implements it; tests use testutil.FakeService.
type Service interface {
	// Load reads the persisted list on first activation.
	// Errors wrap taskstore.ErrStorageRead; the list is then empty.
	Load(ctx context.Context) (taskstore.LoadState, error)

	// Tasks returns the current list in insertion order.
	Tasks() []task.Task

	// Add appends a task and persists the list.
	Add(ctx context.Context, text string) (task.Task, error)

	// Delete removes every task with the given key and persists the list.
	// Returns the number of removed tasks.
	Delete(ctx context.Context, key string) (int, error)
}

// ErrAuth marks errors a Remote reports when credentials are missing,
// expired or revoked.
var ErrAuth = errors.New("auth error")

// Remote is a read-only source of tasks kept in another system.
// Commands never import a remote SDK directly.
type Remote interface {
	// OpenTasks returns open tasks of the remote default list in remote order.
	OpenTasks(ctx context.Context) ([]RemoteTask, error)
}

var _ Service = (*taskstore.Store)(nil)
