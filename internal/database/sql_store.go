package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Correlation is a row of the correlations table.
type Correlation struct {
	Key       string    `db:"corr_key"`
	ChatID    int64     `db:"chat_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SQLStore keeps correlation entries in a SQLite table.
type SQLStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSQLStore creates a Store backed by an already migrated database.
func NewSQLStore(db *sqlx.DB, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SQLStore{
		db:     db,
		logger: logger.With("component", "store", "driver", "sqlite"),
	}
}

// Get returns the origin chat stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) (int64, bool, error) {
	var chatID int64
	err := s.db.GetContext(ctx, &chatID, `SELECT chat_id FROM correlations WHERE corr_key = ?;`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error getting correlation", "key", key, "error", err)
		return 0, false, fmt.Errorf("failed to get correlation %s: %w", key, err)
	}
	return chatID, true, nil
}

// Set stores chatID under key, replacing any previous value.
func (s *SQLStore) Set(ctx context.Context, key string, chatID int64) error {
	now := time.Now().UTC()
	row := Correlation{Key: key, ChatID: chatID, CreatedAt: now, UpdatedAt: now}

	_, err := s.db.NamedExecContext(ctx, `
        INSERT INTO correlations (corr_key, chat_id, created_at, updated_at)
        VALUES (:corr_key, :chat_id, :created_at, :updated_at)
        ON CONFLICT(corr_key) DO UPDATE SET chat_id = excluded.chat_id, updated_at = excluded.updated_at;
    `, row)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving correlation", "key", key, "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to save correlation %s: %w", key, err)
	}

	s.logger.DebugContext(ctx, "Correlation saved", "key", key, "chat_id", chatID)
	return nil
}

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RunMaintenance executes VACUUM and refreshes planner statistics.
func (s *SQLStore) RunMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")
	start := time.Now()

	if _, err := s.db.ExecContext(ctx, "VACUUM;"); err != nil {
		s.logger.ErrorContext(ctx, "Error during VACUUM", "error", err)
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		s.logger.WarnContext(ctx, "PRAGMA optimize failed", "error", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed", "duration", time.Since(start))
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
