// Package logger provides structured logging for the relay bot using slog,
// plus a go-telegram middleware that logs every update.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewLogger creates a slog Logger writing to stdout and makes it the default.
func NewLogger(levelStr string, jsonOutput bool) *slog.Logger {
	logger := New(os.Stdout, levelStr, jsonOutput)
	slog.SetDefault(logger)
	return logger
}

// New creates a slog Logger writing to w. If jsonOutput is true, records are
// formatted as JSON, otherwise as text.
func New(w io.Writer, levelStr string, jsonOutput bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(levelStr)}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Middleware logs each incoming update before and after it is handled.
func Middleware(log *slog.Logger) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			startTime := time.Now()
			logEntry := log.With(updateAttrs(update)...)

			logEntry.DebugContext(ctx, "Processing update")
			next(ctx, b, update)
			logEntry.DebugContext(ctx, "Finished processing update", "duration", time.Since(startTime))
		}
	}
}

func updateAttrs(update *models.Update) []any {
	attrs := []any{"update_id", update.ID}

	m := update.Message
	if m == nil {
		return append(attrs, "update_type", "other")
	}

	updateType := "message"
	switch {
	case len(m.NewChatMembers) > 0:
		updateType = "new_chat_members"
	case m.LeftChatMember != nil:
		updateType = "left_chat_member"
	}
	attrs = append(attrs,
		"update_type", updateType,
		"message_id", m.ID,
		"chat_id", m.Chat.ID,
	)
	if m.From != nil {
		attrs = append(attrs, "user_id", m.From.ID)
	}
	if m.ReplyToMessage != nil {
		attrs = append(attrs, "reply_to_message_id", m.ReplyToMessage.ID)
	}
	if m.Text != "" {
		attrs = append(attrs, "text_preview", truncateString(m.Text, 50))
	}
	return attrs
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return s[:maxLen-3] + "..."
}
