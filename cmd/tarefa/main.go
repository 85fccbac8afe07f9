// Package main is the entry point for the tarefa CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tarefa/internal/cli"
	"tarefa/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, cli.OpenStore, cli.OpenRemote)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
