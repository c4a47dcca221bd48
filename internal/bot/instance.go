package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/relaybot/internal/bot/handlers"
	"github.com/edgard/relaybot/internal/config"
	"github.com/edgard/relaybot/internal/logger"
	"github.com/edgard/relaybot/internal/relay"
	"github.com/edgard/relaybot/internal/telegram"
)

// InstanceDeps are the collaborators shared by, or supplied to, a bot instance.
type InstanceDeps struct {
	Logger    *slog.Logger
	Store     relay.CorrelationStore
	Callbacks relay.Callbacks
	Messages  config.MessagesConfig
	Timeouts  config.TimeoutsConfig
	// BotOptions are appended to the instance's own go-telegram options.
	BotOptions []tgbot.Option
}

// Instance is one relay bot: its Telegram client, relay and membership
// handlers. Instances share nothing but the correlation store.
type Instance struct {
	identity    relay.BotIdentity
	superChatID int64
	tg          *tgbot.Bot
	logger      *slog.Logger

	inflight sync.WaitGroup
	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewInstance creates a bot instance from its configuration.
func NewInstance(cfg config.InstanceConfig, deps InstanceDeps) (*Instance, error) {
	if deps.Store == nil {
		return nil, errors.New("correlation store is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	identity, err := relay.ParseIdentity(cfg.Token)
	if err != nil {
		return nil, err
	}
	botUserID, err := identity.UserID()
	if err != nil {
		return nil, err
	}

	log := deps.Logger.With("bot", string(identity))
	inst := &Instance{
		identity:    identity,
		superChatID: cfg.SuperChatID,
		logger:      log.With("component", "instance"),
		stopCh:      make(chan struct{}),
	}

	pollTimeout := deps.Timeouts.Poll
	if pollTimeout <= 0 {
		pollTimeout = config.DefaultPollTimeout
	}
	opts := []tgbot.Option{
		tgbot.WithMiddlewares(handlers.Tracked(&inst.inflight), logger.Middleware(log)),
		tgbot.WithWorkers(1),
		tgbot.WithNotAsyncHandlers(),
		tgbot.WithHTTPClient(pollTimeout, &http.Client{Timeout: pollTimeout + 10*time.Second}),
		tgbot.WithErrorsHandler(func(err error) {
			log.Error("Telegram client error", "error", err)
		}),
	}
	opts = append(opts, deps.BotOptions...)

	tg, err := telegram.NewTelegramBot(cfg.Token, log, opts...)
	if err != nil {
		return nil, err
	}
	inst.tg = tg

	rl := relay.New(relay.Settings{
		Identity:     identity,
		SuperChatID:  cfg.SuperChatID,
		StartCommand: cfg.StartCommand,
		StartText:    cfg.StartText,
		Notices: relay.Notices{
			UnresolvableOrigin: deps.Messages.UnresolvableOrigin,
			DeliveryFailure:    deps.Messages.DeliveryFailure,
		},
	}, telegram.NewTransport(tg, log), deps.Store, log)
	membership := relay.NewMembership(botUserID, cfg.Identify, deps.Callbacks, log)

	updateTimeout := deps.Timeouts.Update
	if updateTimeout <= 0 {
		updateTimeout = config.DefaultUpdateTimeout
	}
	registered := handlers.RegisterAll(handlers.HandlerDeps{
		Logger:        log,
		Relay:         rl,
		Membership:    membership,
		UpdateTimeout: updateTimeout,
	})
	if err := telegram.RegisterHandlers(tg, log, registered); err != nil {
		return nil, fmt.Errorf("register handlers for bot %s: %w", identity, err)
	}

	return inst, nil
}

// Identity returns the bot identity of the instance.
func (i *Instance) Identity() relay.BotIdentity {
	return i.identity
}

// Start polls for updates until ctx is done or Stop is called. It returns
// only after the update being handled at that moment has finished.
func (i *Instance) Start(ctx context.Context) error {
	if !i.started.CompareAndSwap(false, true) {
		return fmt.Errorf("bot %s already started", i.identity)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-i.stopCh:
			cancel()
		case <-runCtx.Done():
		}
	}()

	i.logger.Info("Starting update polling", "super_chat_id", i.superChatID)
	i.tg.Start(runCtx)
	i.inflight.Wait()
	i.logger.Info("Update polling stopped")
	return nil
}

// Stop requests termination of Start. It is safe to call more than once and
// before Start.
func (i *Instance) Stop() {
	i.stopOnce.Do(func() { close(i.stopCh) })
}
