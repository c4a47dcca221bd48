package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"unknown": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMiddlewareLogsUpdate(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(&buf, "debug", true)

	called := false
	h := Middleware(log)(func(context.Context, *bot.Bot, *models.Update) { called = true })
	h(context.Background(), nil, &models.Update{
		ID: 11,
		Message: &models.Message{
			ID:             5,
			Chat:           models.Chat{ID: -300},
			NewChatMembers: []models.User{{ID: 1}},
		},
	})
	if !called {
		t.Fatal("next handler not called")
	}

	var first map[string]any
	line, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	if err := json.Unmarshal(line, &first); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if first["update_type"] != "new_chat_members" || first["chat_id"] != float64(-300) {
		t.Fatalf("log record = %v", first)
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()
	if got := truncateString("hello world", 8); got != "hello..." {
		t.Fatalf("truncateString() = %q", got)
	}
	if got := truncateString("short", 8); got != "short" {
		t.Fatalf("truncateString() = %q", got)
	}
}

func TestSchedulerLoggerDemotesInfo(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := SchedulerLogger(New(&buf, "info", false))

	l.Info("gocron: new job added", "name", "store_health")
	if buf.Len() != 0 {
		t.Fatalf("info message logged at info level: %s", buf.String())
	}
	l.Error("gocron: job failed", "name", "store_health")
	if !bytes.Contains(buf.Bytes(), []byte("component=gocron")) {
		t.Fatalf("error message missing component: %s", buf.String())
	}
}
