package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// IsRelayable matches messages of a kind the relay accepts.
func IsRelayable(update *models.Update) bool {
	return update.Message != nil && KindOf(update.Message).Relayable()
}

// NewRelayHandler returns a handler passing relayable messages to the relay.
func NewRelayHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return relayHandler{deps}.Handle
}

type relayHandler struct {
	deps HandlerDeps
}

func (h relayHandler) Handle(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "relay")
	if update.Message == nil {
		log.WarnContext(ctx, "Relay handler received update without message", "update_id", update.ID)
		return
	}

	msg := MessageFromModel(update.Message)
	outcome, err := h.deps.Relay.Handle(ctx, msg)
	if err != nil {
		log.ErrorContext(ctx, "Failed to relay message",
			"chat_id", msg.ChatID, "message_id", msg.MessageID, "kind", msg.Kind, "error", err)
		return
	}
	log.InfoContext(ctx, "Message routed",
		"chat_id", msg.ChatID, "message_id", msg.MessageID, "kind", msg.Kind, "outcome", outcome)
}
