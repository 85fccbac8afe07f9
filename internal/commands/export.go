package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tarefa/internal/exitcode"
	"tarefa/internal/output"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	output string

	// now is replaced in tests.
	now func() time.Time
}

// SetNow sets the clock used for the PDF header (for testing).
func (c *ExportCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write the task list as JSON, YAML or PDF" }
func (c *ExportCmd) Usage() string {
	return "tarefa export [--format json|yaml|pdf] [--output <path>]"
}
func (c *ExportCmd) NeedsStore() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", output.FormatJSON, "")
	fs.StringVar(&c.format, "f", output.FormatJSON, "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	format := strings.ToLower(strings.TrimSpace(c.format))
	if format == "" {
		format = output.FormatJSON
	}
	switch format {
	case output.FormatJSON, output.FormatPDF:
	case output.FormatYAML, "yml":
		format = output.FormatYAML
	default:
		fmt.Fprintf(env.ErrOut, "error: unknown export format: %s\n", c.format)
		return exitcode.UserError
	}

	if code := load(ctx, env, false); code != exitcode.Success {
		return code
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	var w io.Writer = env.Out
	if c.output != "" {
		if err := os.MkdirAll(filepath.Dir(c.output), 0755); err != nil {
			fmt.Fprintf(env.ErrOut, "error: failed to create output directory: %v\n", err)
			return exitcode.UserError
		}
		f, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(env.ErrOut, "error: failed to create output file: %v\n", err)
			return exitcode.UserError
		}
		defer f.Close()
		w = f
	}

	tasks := env.Tasks.Tasks()
	if err := output.Export(w, format, tasks, now()); err != nil {
		fmt.Fprintf(env.ErrOut, "error: export failed: %v\n", err)
		return exitcode.UserError
	}

	env.Logger.Debug("tasks exported", "format", format, "count", len(tasks), "output", c.output)
	if c.output != "" && !env.Config.Quiet {
		fmt.Fprintf(env.Out, "ok (%s written to %s)\n", output.Pluralize(len(tasks), "task"), c.output)
	}
	return exitcode.Success
}
