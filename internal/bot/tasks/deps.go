// Package tasks implements the scheduled housekeeping tasks of the relay
// process.
package tasks

import (
	"log/slog"

	"github.com/edgard/relaybot/internal/database"
)

// TaskDeps contains the dependencies shared by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  database.Store
}
