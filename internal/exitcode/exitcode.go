// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"tarefa/internal/service"
	"tarefa/internal/taskstore"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, not found, blank text).
	UserError = 1

	// AuthError indicates an auth/config error.
	AuthError = 2

	// BackendError indicates a remote API/network error (import).
	BackendError = 3

	// StorageError indicates the task list could not be read or written.
	StorageError = 4
)

// For classifies an error returned by the task store or a remote.
func For(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, taskstore.ErrValidation):
		return UserError
	case errors.Is(err, service.ErrAuth):
		return AuthError
	case errors.Is(err, taskstore.ErrStorageRead), errors.Is(err, taskstore.ErrStorageWrite):
		return StorageError
	default:
		return BackendError
	}
}
