package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DefaultStartCommand is matched as a text prefix in every chat.
const DefaultStartCommand = "/start"

// Notices holds the texts sent to a sender when a message cannot be relayed.
type Notices struct {
	UnresolvableOrigin string
	DeliveryFailure    string
}

// Settings configures a Relay for one bot instance.
type Settings struct {
	Identity     BotIdentity
	SuperChatID  int64
	StartCommand string
	StartText    string
	Notices      Notices
}

// Relay decides, per inbound message, where it goes and keeps the correlation
// store in sync with messages relayed into the super chat.
type Relay struct {
	settings  Settings
	transport Transport
	store     CorrelationStore
	logger    *slog.Logger
}

// New creates a Relay bound to a transport and a correlation store.
func New(settings Settings, transport Transport, store CorrelationStore, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if settings.StartCommand == "" {
		settings.StartCommand = DefaultStartCommand
	}
	return &Relay{
		settings:  settings,
		transport: transport,
		store:     store,
		logger:    logger.With("component", "relay", "bot", string(settings.Identity)),
	}
}

// Handle routes a single inbound message. Unresolvable origins and rejected
// deliveries are answered with a notice and reported through the Outcome;
// the returned error is reserved for store and transport I/O failures.
func (r *Relay) Handle(ctx context.Context, msg Message) (Outcome, error) {
	switch {
	case strings.HasPrefix(msg.Text, r.settings.StartCommand):
		if err := r.transport.ReplyText(ctx, msg, r.settings.StartText); err != nil {
			return OutcomeFailed, fmt.Errorf("reply with start text: %w", err)
		}
		return OutcomeStarted, nil
	case msg.ChatID != r.settings.SuperChatID:
		return r.relayToSuperChat(ctx, msg)
	case msg.ReplyTo == nil:
		return r.echoIntoSuperChat(ctx, msg)
	default:
		return r.deliverReply(ctx, msg)
	}
}

func (r *Relay) relayToSuperChat(ctx context.Context, msg Message) (Outcome, error) {
	newID, err := r.transport.Forward(ctx, msg, r.settings.SuperChatID)
	if err != nil {
		return r.rejected(ctx, msg, fmt.Errorf("forward to super chat: %w", err))
	}

	key := Key(r.settings.Identity, newID)
	if err := r.store.Set(ctx, key, msg.ChatID); err != nil {
		return OutcomeFailed, fmt.Errorf("store correlation %s: %w", key, err)
	}

	r.logger.DebugContext(ctx, "Relayed message into super chat",
		"origin_chat_id", msg.ChatID, "message_id", msg.MessageID, "super_message_id", newID)
	return OutcomeRelayed, nil
}

// echoIntoSuperChat forwards a super chat message that replies to nothing
// back into the super chat. Nothing is stored for the echoed copy.
func (r *Relay) echoIntoSuperChat(ctx context.Context, msg Message) (Outcome, error) {
	if _, err := r.transport.Forward(ctx, msg, r.settings.SuperChatID); err != nil {
		return r.rejected(ctx, msg, fmt.Errorf("echo into super chat: %w", err))
	}
	return OutcomeEchoed, nil
}

func (r *Relay) deliverReply(ctx context.Context, msg Message) (Outcome, error) {
	target, err := r.resolveOrigin(ctx, msg.ReplyTo)
	if errors.Is(err, ErrUnresolvableOrigin) {
		r.logger.InfoContext(ctx, "Reply target has no known origin chat",
			"reply_to_message_id", msg.ReplyTo.MessageID, "sender_id", msg.SenderID)
		if err := r.transport.ReplyText(ctx, msg, r.settings.Notices.UnresolvableOrigin); err != nil {
			return OutcomeFailed, fmt.Errorf("reply with unresolvable origin notice: %w", err)
		}
		return OutcomeUnresolvable, nil
	}
	if err != nil {
		return OutcomeFailed, err
	}

	if err := r.transport.Copy(ctx, msg, target); err != nil {
		return r.rejected(ctx, msg, fmt.Errorf("copy to chat %d: %w", target, err))
	}

	r.logger.DebugContext(ctx, "Delivered reply to origin chat",
		"origin_chat_id", target, "reply_to_message_id", msg.ReplyTo.MessageID)
	return OutcomeDelivered, nil
}

func (r *Relay) resolveOrigin(ctx context.Context, target *ReplyTarget) (int64, error) {
	key := Key(r.settings.Identity, target.MessageID)
	chatID, ok, err := r.store.Get(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("lookup correlation %s: %w", key, err)
	}
	if ok {
		return chatID, nil
	}
	if target.ForwardedFromChat != nil {
		return *target.ForwardedFromChat, nil
	}
	return 0, ErrUnresolvableOrigin
}

// rejected answers the sender with the delivery failure notice when err is a
// platform rejection, and passes any other error through.
func (r *Relay) rejected(ctx context.Context, msg Message, err error) (Outcome, error) {
	if !errors.Is(err, ErrDeliveryFailure) {
		return OutcomeFailed, err
	}
	r.logger.WarnContext(ctx, "Message delivery rejected", "chat_id", msg.ChatID, "error", err)
	if replyErr := r.transport.ReplyText(ctx, msg, r.settings.Notices.DeliveryFailure); replyErr != nil {
		return OutcomeFailed, fmt.Errorf("reply with delivery failure notice: %w", replyErr)
	}
	return OutcomeDeliveryFailed, nil
}
