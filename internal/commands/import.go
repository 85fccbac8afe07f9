package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"tarefa/internal/exitcode"
	"tarefa/internal/output"
)

func init() {
	Register(&ImportCmd{})
}

// ImportCmd copies open tasks from Google Tasks into the local list.
// It is a one-shot copy; nothing is written back.
type ImportCmd struct{}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Copy open tasks from Google Tasks" }
func (c *ImportCmd) Usage() string     { return "tarefa import" }
func (c *ImportCmd) NeedsStore() bool  { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ImportCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if env.Remote == nil {
		fmt.Fprintln(env.ErrOut, "error: import is not available")
		return exitcode.BackendError
	}

	remote, err := env.Remote(ctx, env.Config)
	if err != nil {
		return reportRemoteError(env, err)
	}

	if code := load(ctx, env, true); code != exitcode.Success {
		return code
	}

	remoteTasks, err := remote.OpenTasks(ctx)
	if err != nil {
		return reportRemoteError(env, err)
	}

	imported := 0
	for _, rt := range remoteTasks {
		if strings.TrimSpace(rt.Title) == "" {
			env.Logger.Debug("skipping untitled remote task", "id", rt.ID)
			continue
		}
		if _, err := env.Tasks.Add(ctx, rt.Title); err != nil {
			return reportMutationError(env, err)
		}
		imported++
	}

	env.Logger.Info("import finished", "remote", len(remoteTasks), "imported", imported)
	if !env.Config.Quiet {
		fmt.Fprintf(env.Out, "ok (%s imported)\n", output.Pluralize(imported, "task"))
	}
	return exitcode.Success
}

func reportRemoteError(env *Env, err error) int {
	code := exitcode.For(err)
	if code == exitcode.AuthError {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
	} else {
		fmt.Fprintf(env.ErrOut, "error: backend error: %v\n", err)
	}
	return code
}
