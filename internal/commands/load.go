package commands

import (
	"context"
	"fmt"

	"tarefa/internal/exitcode"
)

// load activates the task list for a command.
//
// A read failure leaves the list empty. Read-only commands carry on with
// the empty list; mutating commands stop so the unreadable value is not
// overwritten by their persist.
func load(ctx context.Context, env *Env, mutating bool) int {
	state, err := env.Tasks.Load(ctx)
	if err == nil {
		env.Logger.Debug("task list loaded", "state", state.String(), "count", len(env.Tasks.Tasks()))
		return exitcode.Success
	}
	if mutating {
		fmt.Fprintf(env.ErrOut, "error: stored tasks unreadable: %v\n", err)
		return exitcode.StorageError
	}
	if !env.Config.Quiet {
		fmt.Fprintf(env.ErrOut, "warning: stored tasks unreadable: %v\n", err)
	}
	return exitcode.Success
}
