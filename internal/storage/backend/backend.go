// Package backend opens the storage.Store selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/pokernight/internal/config"
	"github.com/mmynk/pokernight/internal/storage"
	"github.com/mmynk/pokernight/internal/storage/postgres"
	"github.com/mmynk/pokernight/internal/storage/sqlite"
)

// Open connects to the configured backend and applies its migrations.
func Open(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	kind, target, err := cfg.Storage()
	if err != nil {
		return nil, err
	}

	switch kind {
	case config.BackendPostgres:
		store, err := postgres.New(ctx, postgres.Options{
			DatabaseURL:    target,
			MaxConns:       cfg.DatabaseMaxConns,
			ConnectTimeout: cfg.DatabaseConnectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		slog.Info("Storage initialized", "backend", kind)
		return store, nil
	case config.BackendSQLite:
		store, err := sqlite.New(target)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		slog.Info("Storage initialized", "backend", kind, "database", target)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", kind)
	}
}
