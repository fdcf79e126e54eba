// Package persistence selects the workspace state store from configuration.
package persistence

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/startup-toolkit/internal/adapters/persistence/memory"
	"github.com/jsamuelsen/startup-toolkit/internal/adapters/persistence/sqlstore"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/config"
	"github.com/jsamuelsen/startup-toolkit/internal/ports"
)

// Open returns the store named by cfg.Driver. SQL stores also implement
// ports.HealthChecker and io.Closer.
func Open(ctx context.Context, cfg config.StorageConfig) (ports.StateStore, error) {
	switch cfg.Driver {
	case "", "memory":
		return memory.NewStore(), nil
	case "sqlite", "postgres":
		return sqlstore.Open(ctx, sqlstore.Dialect(cfg.Driver), cfg.DSN, sqlstore.Options{
			MaxOpenConns:    cfg.MaxOpenConns,
			ConnMaxLifetime: cfg.ConnMaxLifetime,
			AutoMigrate:     cfg.AutoMigrate,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
