package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RELAYBOT_TELEGRAM_TOKEN", "123456:secret")
	t.Setenv("RELAYBOT_TELEGRAM_SUPER_CHAT_ID", "-100200")
	t.Setenv("RELAYBOT_TELEGRAM_START_TEXT", "Write us a message")
	t.Setenv("RELAYBOT_TELEGRAM_IDENTIFY", "17")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	instances := cfg.BotInstances()
	if len(instances) != 1 {
		t.Fatalf("BotInstances() = %d, want 1", len(instances))
	}
	inst := instances[0]
	if inst.Token != "123456:secret" || inst.SuperChatID != -100200 || inst.StartText != "Write us a message" {
		t.Fatalf("unexpected instance: %+v", inst)
	}
	if inst.StartCommand != DefaultStartCommand {
		t.Fatalf("StartCommand = %q, want %q", inst.StartCommand, DefaultStartCommand)
	}
	if inst.Identify == nil || *inst.Identify != 17 {
		t.Fatalf("Identify = %v, want 17", inst.Identify)
	}
	if cfg.Store.Driver != DefaultStoreDriver || cfg.Store.Redis.URL != DefaultRedisURL {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Messages != DefaultMessages {
		t.Fatalf("Messages = %+v, want defaults", cfg.Messages)
	}
	if cfg.Timeouts.Update != DefaultUpdateTimeout {
		t.Fatalf("Timeouts.Update = %v, want %v", cfg.Timeouts.Update, DefaultUpdateTimeout)
	}
	if task := cfg.Scheduler.Tasks["store_health"]; !task.Enabled || task.Schedule == "" {
		t.Fatalf("store_health task = %+v, want default", task)
	}
	if cfg.Events.Enabled() {
		t.Fatal("events enabled without amqp_url")
	}
}

func TestLoadInstancesFromFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  json: true
instances:
  - token: "111:aaa"
    super_chat_id: -1001
    start_text: "first"
    identify: 1
  - token: "222:bbb"
    super_chat_id: -1002
    start_text: "second"
    start_command: "/hello"
store:
  driver: sqlite
  sqlite:
    path: /tmp/relay.db
messages:
  delivery_failure: "blocked"
scheduler:
  tasks:
    store_maintenance:
      enabled: false
timeouts:
  update: 5s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.JSON {
		t.Fatalf("Log = %+v", cfg.Log)
	}
	instances := cfg.BotInstances()
	if len(instances) != 2 {
		t.Fatalf("BotInstances() = %d, want 2", len(instances))
	}
	if instances[0].StartCommand != DefaultStartCommand || instances[1].StartCommand != "/hello" {
		t.Fatalf("start commands = %q, %q", instances[0].StartCommand, instances[1].StartCommand)
	}
	if instances[1].Identify != nil {
		t.Fatalf("Identify = %v, want nil", *instances[1].Identify)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.SQLite.Path != "/tmp/relay.db" {
		t.Fatalf("Store = %+v", cfg.Store)
	}
	if cfg.Messages.DeliveryFailure != "blocked" || cfg.Messages.UnresolvableOrigin != DefaultMessages.UnresolvableOrigin {
		t.Fatalf("Messages = %+v", cfg.Messages)
	}
	if cfg.Scheduler.Tasks["store_maintenance"].Enabled {
		t.Fatal("store_maintenance should be disabled")
	}
	if cfg.Timeouts.Update != 5*time.Second {
		t.Fatalf("Timeouts.Update = %v", cfg.Timeouts.Update)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing token",
			body: "telegram:\n  super_chat_id: -1\n  start_text: hi\n",
		},
		{
			name: "malformed token",
			body: "telegram:\n  token: abc:def\n  super_chat_id: -1\n  start_text: hi\n",
		},
		{
			name: "token without secret",
			body: "telegram:\n  token: \"123:\"\n  super_chat_id: -1\n  start_text: hi\n",
		},
		{
			name: "missing super chat",
			body: "telegram:\n  token: \"1:a\"\n  start_text: hi\n",
		},
		{
			name: "unknown store driver",
			body: "telegram:\n  token: \"1:a\"\n  super_chat_id: -1\n  start_text: hi\nstore:\n  driver: memcached\n",
		},
		{
			name: "duplicate bots",
			body: "instances:\n  - {token: \"1:a\", super_chat_id: -1, start_text: hi}\n  - {token: \"1:b\", super_chat_id: -2, start_text: hi}\n",
		},
		{
			name: "bad log level",
			body: "log:\n  level: trace\ntelegram:\n  token: \"1:a\"\n  super_chat_id: -1\n  start_text: hi\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("Load() error = %v, want ErrConfiguration", err)
			}
		})
	}
}
