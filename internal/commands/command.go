// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"
	"log/slog"

	"tarefa/internal/config"
	"tarefa/internal/service"
)

// RemoteFactory creates the Remote that import reads from.
type RemoteFactory func(ctx context.Context, cfg *config.Config) (service.Remote, error)

// Env is everything a command runs against.
type Env struct {
	// Config is always provided (config dir, paths, settings).
	Config *config.Config

	// Tasks is nil if the command's NeedsStore() returns false.
	// It has not been loaded yet; commands call load.
	Tasks service.Service

	// Remote creates the import source. May be nil.
	Remote RemoteFactory

	Logger *slog.Logger
	Out    io.Writer
	ErrOut io.Writer
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command works on the task list.
	// Commands like help, version, login, logout return false.
	NeedsStore() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string) int
}
