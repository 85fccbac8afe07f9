package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"tarefa/internal/commands"
	"tarefa/internal/config"
	"tarefa/internal/exitcode"
	"tarefa/internal/logging"
	"tarefa/internal/service"
)

// StoreFactory creates the task list from config.
// Used to inject the storage backend during dispatch. If the returned
// Service implements io.Closer, it is closed after the command runs.
type StoreFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	stores   StoreFactory
	remotes  commands.RemoteFactory
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
// A nil stores factory means OpenStore. A nil remotes factory disables import.
func NewDispatcher(registry *commands.Registry, stores StoreFactory, remotes commands.RemoteFactory) *Dispatcher {
	if stores == nil {
		stores = OpenStore
	}
	return &Dispatcher{
		registry: registry,
		stores:   stores,
		remotes:  remotes,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	storage   string
	quiet     bool
	debug     bool
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	fs.StringVar(&common.configDir, "config", "", "")
	fs.StringVar(&common.storage, "storage", "", "")
	fs.BoolVar(&common.quiet, "quiet", false, "")
	fs.BoolVar(&common.debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		reportFlagError(errOut, err)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	if common.storage != "" {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(common.storage))
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(errOut, "error: unknown storage backend: %s\n", common.storage)
			return exitcode.UserError
		}
	}

	logger := logging.Setup(errOut, logging.Options{
		Level: cfg.Log.Level,
		Debug: cfg.Debug,
		Quiet: cfg.Quiet,
	})
	logger.Debug("dispatching command",
		"command", cmd.Name(),
		"config_dir", cfg.Dir,
		"storage_backend", cfg.Storage.Backend)

	env := &commands.Env{
		Config: cfg,
		Remote: d.remotes,
		Logger: logger,
		Out:    out,
		ErrOut: errOut,
	}

	if cmd.NeedsStore() {
		svc, err := d.stores(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: storage error: %s\n", err)
			return exitcode.StorageError
		}
		if closer, ok := svc.(io.Closer); ok {
			defer func() {
				if err := closer.Close(); err != nil {
					logger.Error("failed to close storage", "error", err)
				}
			}()
		}
		env.Tasks = svc
	}

	return cmd.Run(ctx, env, positionalArgs)
}

// reportFlagError prints a flag parse error in the CLI's wording.
func reportFlagError(errOut io.Writer, err error) {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		if len(parts) > 1 {
			flagPart := strings.TrimSpace(parts[len(parts)-1])
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagPart)
			return
		}
	}

	// Unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
		return
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
}
