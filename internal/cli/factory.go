// Package cli parses the command line and runs commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"tarefa/internal/backend/googletasks"
	"tarefa/internal/config"
	"tarefa/internal/service"
	"tarefa/internal/storage"
	"tarefa/internal/task"
	"tarefa/internal/taskstore"
)

// OpenStore opens the configured storage backend and wraps it in a task store.
// The store is not loaded.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, error) {
	keyFn, err := task.KeyFuncFor(task.KeyStrategy(cfg.Tasks.KeyStrategy))
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(ctx, storage.Options{
		Backend: cfg.Storage.Backend,
		Path:    cfg.StoragePath(),
	})
	if err != nil {
		return nil, err
	}

	return taskstore.New(kv,
		taskstore.WithKey(cfg.Storage.Key),
		taskstore.WithKeyFunc(keyFn),
		taskstore.WithLogger(logger),
	), nil
}

// OpenRemote creates the Google Tasks reader used by import.
// Missing credentials are reported as service.ErrAuth.
func OpenRemote(ctx context.Context, cfg *config.Config) (service.Remote, error) {
	if !cfg.HasOAuthClient() {
		return nil, fmt.Errorf("%w: %s not found in %s", service.ErrAuth, config.OAuthClientFile, cfg.Dir)
	}
	if !cfg.HasToken() {
		return nil, fmt.Errorf("%w: not logged in (run: tarefa login)", service.ErrAuth)
	}

	client, err := googletasks.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", service.ErrAuth, err)
	}
	return client, nil
}
