package commands

import (
	"context"
	"flag"
	"fmt"

	"tarefa/internal/exitcode"
	"tarefa/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tarefa` (no args) and `tarefa list`.
type ListCmd struct {
	keys bool
}

// SetKeys enables key output (for testing).
func (c *ListCmd) SetKeys(keys bool) {
	c.keys = keys
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "tarefa list [--keys]" }
func (c *ListCmd) NeedsStore() bool  { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.keys, "keys", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if code := load(ctx, env, false); code != exitcode.Success {
		return code
	}

	tasks := env.Tasks.Tasks()
	if len(tasks) == 0 {
		if !env.Config.Quiet {
			fmt.Fprintln(env.Out, "no tasks found")
		}
		return exitcode.Success
	}

	for i, t := range tasks {
		if c.keys {
			output.FormatTaskWithKey(env.Out, i+1, t)
		} else {
			output.FormatTask(env.Out, i+1, t)
		}
	}
	return exitcode.Success
}
