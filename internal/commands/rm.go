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
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	key string
}

// SetKey sets the task key (for testing).
func (c *RmCmd) SetKey(key string) {
	c.key = key
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "tarefa rm <n> | tarefa rm --key <key>" }
func (c *RmCmd) NeedsStore() bool  { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.key, "key", "", "")
	fs.StringVar(&c.key, "k", "", "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
	// --key and a task number are mutually exclusive
	if c.key != "" && len(args) > 0 {
		fmt.Fprintln(env.ErrOut, "error: cannot use both --key and a task number")
		return exitcode.UserError
	}

	var num int
	if c.key == "" {
		var err error
		num, err = ParseTaskRef(args)
		if err != nil {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			return exitcode.UserError
		}
	} else if strings.TrimSpace(c.key) == "" {
		fmt.Fprintln(env.ErrOut, "error: task reference required")
		return exitcode.UserError
	}

	if code := load(ctx, env, true); code != exitcode.Success {
		return code
	}

	key := c.key
	if key == "" {
		tasks := env.Tasks.Tasks()
		if num < 1 || num > len(tasks) {
			fmt.Fprintf(env.ErrOut, "error: task number out of range: %d\n", num)
			return exitcode.UserError
		}
		key = tasks[num-1].Key
	}

	removed, err := env.Tasks.Delete(ctx, key)
	if err != nil {
		return reportMutationError(env, err)
	}
	if removed == 0 {
		fmt.Fprintln(env.ErrOut, "error: task not found")
		return exitcode.UserError
	}

	if !env.Config.Quiet {
		if removed == 1 {
			fmt.Fprintln(env.Out, "ok")
		} else {
			fmt.Fprintf(env.Out, "ok (%s removed)\n", output.Pluralize(removed, "task"))
		}
	}
	return exitcode.Success
}
