// Package main contains the entrypoint for the relay bot.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/edgard/relaybot/internal/bot"
	"github.com/edgard/relaybot/internal/bot/tasks"
	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/database"
	"github.com/edgard/relaybot/internal/events"
	"github.com/edgard/relaybot/internal/logger"
	"github.com/edgard/relaybot/internal/relay"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "relaybot",
		Short:         "Relay private chats into a staff super chat and route replies back",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "./config.yaml", "Path to configuration file")

	cmd.AddCommand(newMigrateCmd(&configPath))
	return cmd
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [database path]",
		Short: "Apply SQLite correlation store migrations and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := config.Load(*configPath)
				if err != nil {
					slog.Error("Failed to load configuration", "path", *configPath, "error", err)
					return err
				}
				path = cfg.Store.SQLite.Path
			}

			db, err := database.NewDB(path, slog.Default())
			if err != nil {
				slog.Error("Failed to migrate database", "path", path, "error", err)
				return err
			}
			database.CloseDB(db, slog.Default())
			slog.Info("Database migrated", "path", path)
			return nil
		},
	}
}

// run loads configuration, builds the store, the event publisher, one bot
// instance per configured token and the scheduler, then blocks until ctx is
// cancelled.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", configPath, "error", err)
		return err
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("Logger initialized", "level", cfg.Log.Level, "json", cfg.Log.JSON)

	store, err := database.Open(ctx, cfg.Store, log)
	if err != nil {
		log.Error("Failed to open correlation store", "driver", cfg.Store.Driver, "error", err)
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing correlation store", "error", err)
		}
	}()

	var publisher events.Publisher
	if cfg.Events.Enabled() {
		publisher, err = events.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Exchange, log)
		if err != nil {
			log.Error("Failed to connect event publisher", "error", err)
			return err
		}
		defer publisher.Close()
	}

	var instances []*bot.Instance
	for _, ic := range cfg.BotInstances() {
		identity, err := relay.ParseIdentity(ic.Token)
		if err != nil {
			return err
		}
		var callbacks relay.Callbacks
		if publisher != nil {
			callbacks = events.MembershipCallbacks(publisher, identity)
		}

		inst, err := bot.NewInstance(ic, bot.InstanceDeps{
			Logger:    log,
			Store:     store,
			Callbacks: callbacks,
			Messages:  cfg.Messages,
			Timeouts:  cfg.Timeouts,
		})
		if err != nil {
			log.Error("Failed to create bot instance", "bot", identity, "error", err)
			return err
		}
		instances = append(instances, inst)
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger: log,
		Store:  store,
	}))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return err
	}

	log.Info("Starting relay...", "instances", len(instances))
	runErr := bot.NewRunner(log, instances, sched).Run(ctx)
	log.Info("Relay run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Relay stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return fmt.Errorf("relay stopped: %w", runErr)
	}

	log.Info("Relay stopped gracefully.")
	return nil
}
