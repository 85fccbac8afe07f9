package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tarefa/internal/exitcode"
	"tarefa/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd starts the interactive task list.
type UICmd struct {
	// run is replaced in tests.
	run func(ctx context.Context, m tui.Model, out io.Writer) error
}

// SetRunner replaces the program runner (for testing).
func (c *UICmd) SetRunner(run func(ctx context.Context, m tui.Model, out io.Writer) error) {
	c.run = run
}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Open the interactive task list" }
func (c *UICmd) Usage() string     { return "tarefa ui" }
func (c *UICmd) NeedsStore() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	run := c.run
	if run == nil {
		run = tui.Run
	}

	// The model loads the list itself once the program starts.
	if err := run(ctx, tui.New(ctx, env.Tasks), env.Out); err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
