// Package bot wires relay bot instances to Telegram and runs them, together
// with the scheduled tasks, until shutdown.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Runner runs bot instances and the scheduler as one unit.
type Runner struct {
	logger    *slog.Logger
	instances []*Instance
	scheduler *Scheduler
}

// NewRunner creates a Runner. scheduler may be nil.
func NewRunner(logger *slog.Logger, instances []*Instance, scheduler *Scheduler) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger:    logger.With("component", "bot_orchestrator"),
		instances: instances,
		scheduler: scheduler,
	}
}

// Run starts every instance and the scheduler and blocks until ctx is
// cancelled, all instances have been stopped, or one of them fails.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.instances) == 0 {
		return errors.New("no bot instances configured")
	}
	r.logger.Info("Starting bot orchestrator...", "instances", len(r.instances))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	var running sync.WaitGroup
	for _, inst := range r.instances {
		running.Add(1)
		g.Go(func() error {
			defer running.Done()
			if err := inst.Start(gCtx); err != nil {
				return fmt.Errorf("bot %s: %w", inst.Identity(), err)
			}
			return nil
		})
	}

	// The scheduler has nothing to serve once every instance is gone.
	g.Go(func() error {
		running.Wait()
		cancel()
		return nil
	})

	if r.scheduler != nil {
		g.Go(func() error {
			if err := r.scheduler.Start(); err != nil {
				r.logger.Error("Failed to start scheduler", "error", err)
				return fmt.Errorf("failed to start scheduler: %w", err)
			}

			<-gCtx.Done()
			r.logger.Info("Shutdown signal received, stopping scheduler...")
			if err := r.scheduler.Stop(); err != nil {
				r.logger.Error("Error stopping scheduler", "error", err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Error("Bot orchestrator stopped due to error", "error", err)
		return err
	}

	r.logger.Info("Bot orchestrator stopped gracefully.")
	return nil
}

// Stop asks every instance to stop after its in-flight update.
func (r *Runner) Stop() {
	for _, inst := range r.instances {
		inst.Stop()
	}
}
