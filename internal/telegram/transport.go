package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/relay"
)

// Transport implements relay.Transport with the Bot API methods
// forwardMessage, copyMessage and sendMessage.
type Transport struct {
	bot    *bot.Bot
	logger *slog.Logger
}

// NewTransport wraps a bot client.
func NewTransport(b *bot.Bot, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Transport{
		bot:    b,
		logger: logger.With("component", "telegram_transport"),
	}
}

// Forward forwards msg into chatID and returns the id of the new message.
func (t *Transport) Forward(ctx context.Context, msg relay.Message, chatID int64) (int, error) {
	sent, err := t.bot.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:     chatID,
		FromChatID: msg.ChatID,
		MessageID:  msg.MessageID,
	})
	if err != nil {
		return 0, classify(err)
	}
	if sent == nil {
		return 0, fmt.Errorf("forwardMessage returned no message")
	}
	return sent.ID, nil
}

// Copy sends a copy of msg to chatID.
func (t *Transport) Copy(ctx context.Context, msg relay.Message, chatID int64) error {
	_, err := t.bot.CopyMessage(ctx, &bot.CopyMessageParams{
		ChatID:     chatID,
		FromChatID: msg.ChatID,
		MessageID:  msg.MessageID,
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// ReplyText sends text to msg's chat as a reply to msg.
func (t *Transport) ReplyText(ctx context.Context, msg relay.Message, text string) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.ChatID,
		Text:   text,
		ReplyParameters: &models.ReplyParameters{
			MessageID:                msg.MessageID,
			AllowSendingWithoutReply: true,
		},
	})
	if err != nil {
		t.logger.ErrorContext(ctx, "Failed to send reply", "chat_id", msg.ChatID, "error", err)
		return fmt.Errorf("sendMessage to chat %d: %w", msg.ChatID, err)
	}
	return nil
}

// classify marks API rejections (blocked bot, missing chat or message) as
// relay.ErrDeliveryFailure. Network and server errors pass through unchanged.
func classify(err error) error {
	if errors.Is(err, bot.ErrorForbidden) || errors.Is(err, bot.ErrorBadRequest) {
		return fmt.Errorf("%w: %w", relay.ErrDeliveryFailure, err)
	}
	return err
}
