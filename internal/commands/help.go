package commands

import (
	"context"
	"flag"
	"fmt"

	"tarefa/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tarefa help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tarefa                                          List tasks
  tarefa list [common flags] [--keys]             List tasks, optionally with keys
  tarefa add [common flags] <text...>             Add a task
  tarefa create [common flags] <text...>
  tarefa rm [common flags] <n>                    Delete task number n
  tarefa rm [common flags] --key <key>            Delete every task with key
  tarefa ui [common flags]                        Open the interactive list
  tarefa export [common flags] [--format json|yaml|pdf] [--output <path>]
  tarefa import [common flags]                    Copy open tasks from Google Tasks
  tarefa login [common flags]
  tarefa logout [common flags]
  tarefa help
  tarefa version

Common flags:
  --config <dir>       Override config directory
  --storage <backend>  Storage backend: file, sqlite or memory
  --quiet              Suppress informational output
  --debug              Print debug logs to stderr
`
