package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/relay"
)

// Store is a correlation store backend with the lifecycle hooks used by the
// process and the scheduled tasks.
type Store interface {
	relay.CorrelationStore

	// Ping checks the backend connection.
	Ping(ctx context.Context) error

	// RunMaintenance performs periodic housekeeping on the backend.
	RunMaintenance(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// Open creates the Store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	switch cfg.Driver {
	case "redis":
		return NewRedisStore(ctx, cfg.Redis, logger)
	case "sqlite":
		db, err := NewDB(cfg.SQLite.Path, logger)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
