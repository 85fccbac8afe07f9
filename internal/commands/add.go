package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"tarefa/internal/exitcode"
	"tarefa/internal/taskstore"
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Add a task" }
func (c *AddCmd) Usage() string     { return "tarefa add <text...>" }
func (c *AddCmd) NeedsStore() bool  { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	return runAdd(ctx, env, args)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct{}

func (c *CreateCmd) Name() string      { return "create" }
func (c *CreateCmd) Aliases() []string { return nil }
func (c *CreateCmd) Synopsis() string  { return "Add a task (alias for add)" }
func (c *CreateCmd) Usage() string     { return "tarefa create <text...>" }
func (c *CreateCmd) NeedsStore() bool  { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CreateCmd) Run(ctx context.Context, env *Env, args []string) int {
	return runAdd(ctx, env, args)
}

// runAdd is the shared implementation for add and create commands.
func runAdd(ctx context.Context, env *Env, args []string) int {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(env.ErrOut, "error: task text required")
		return exitcode.UserError
	}

	if code := load(ctx, env, true); code != exitcode.Success {
		return code
	}

	if _, err := env.Tasks.Add(ctx, text); err != nil {
		return reportMutationError(env, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return exitcode.Success
}

// reportMutationError reports an Add/Delete error and returns its exit code.
func reportMutationError(env *Env, err error) int {
	code := exitcode.For(err)
	switch {
	case errors.Is(err, taskstore.ErrEmptyText):
		fmt.Fprintln(env.ErrOut, "error: task text required")
	case code == exitcode.StorageError:
		fmt.Fprintf(env.ErrOut, "error: storage error: %v\n", err)
	default:
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
	}
	return code
}
