package tasks

import (
	"context"
	"fmt"
	"time"
)

const (
	maintenanceTimeout = 10 * time.Minute
	healthTimeout      = 10 * time.Second
)

// newStoreMaintenanceTask runs the backend's housekeeping (VACUUM for SQLite,
// key space report for Redis).
func newStoreMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "store_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled store maintenance task...")
		startTime := time.Now()

		ctx, cancel := context.WithTimeout(ctx, maintenanceTimeout)
		defer cancel()

		if err := deps.Store.RunMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "Store maintenance task failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("store maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled store maintenance task completed successfully", "duration", time.Since(startTime))
		return nil
	}
}

// newStoreHealthTask pings the correlation store so an unreachable backend
// shows up in the logs before the next relayed message fails on it.
func newStoreHealthTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "store_health")

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, healthTimeout)
		defer cancel()

		startTime := time.Now()
		if err := deps.Store.Ping(ctx); err != nil {
			log.ErrorContext(ctx, "Correlation store is unreachable", "error", err)
			return fmt.Errorf("store health check failed: %w", err)
		}
		log.DebugContext(ctx, "Correlation store is healthy", "latency", time.Since(startTime))
		return nil
	}
}
