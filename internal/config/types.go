// Package config loads relay bot configuration from defaults, an optional
// YAML file and RELAYBOT_* environment variables.
package config

import (
	"errors"
	"time"
)

// ErrConfiguration wraps every loading and validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the root configuration of the relay process.
type Config struct {
	Log LogConfig `mapstructure:"log"`

	// Telegram describes the single bot run when Instances is empty.
	Telegram InstanceConfig `mapstructure:"telegram" validate:"-"`
	// Instances lists bots sharing this process and its correlation store.
	Instances []InstanceConfig `mapstructure:"instances" validate:"-"`

	Messages  MessagesConfig  `mapstructure:"messages"`
	Store     StoreConfig     `mapstructure:"store"`
	Events    EventsConfig    `mapstructure:"events"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Timeouts  TimeoutsConfig  `mapstructure:"timeouts"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// InstanceConfig configures one bot.
type InstanceConfig struct {
	Token        string `mapstructure:"token"         validate:"required,bot_token"`
	SuperChatID  int64  `mapstructure:"super_chat_id" validate:"required,ne=0"`
	StartText    string `mapstructure:"start_text"    validate:"required"`
	StartCommand string `mapstructure:"start_command" validate:"required,startswith=/"`
	// Identify tags membership events of this instance; nil when unset.
	Identify *int64 `mapstructure:"identify"`
}

// MessagesConfig holds the notices sent when a message cannot be relayed.
type MessagesConfig struct {
	UnresolvableOrigin string `mapstructure:"unresolvable_origin" validate:"required"`
	DeliveryFailure    string `mapstructure:"delivery_failure"    validate:"required"`
}

// StoreConfig selects and configures the correlation store backend.
type StoreConfig struct {
	Driver string       `mapstructure:"driver" validate:"oneof=redis sqlite"`
	Redis  RedisConfig  `mapstructure:"redis"`
	SQLite SQLiteConfig `mapstructure:"sqlite"`
}

// RedisConfig configures the networked key-value backend.
type RedisConfig struct {
	URL string `mapstructure:"url"`
	// TTL of correlation entries; zero keeps them until the server evicts them.
	TTL time.Duration `mapstructure:"ttl" validate:"min=0"`
}

// SQLiteConfig configures the embedded SQL backend.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// EventsConfig enables publishing membership events to RabbitMQ.
type EventsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string `mapstructure:"exchange" validate:"required"`
}

// Enabled reports whether membership events should be published.
func (c EventsConfig) Enabled() bool {
	return c.AMQPURL != ""
}

// SchedulerConfig maps task names to their schedule.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig configures a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// TimeoutsConfig bounds the time spent on external calls.
type TimeoutsConfig struct {
	// Update bounds the handling of a single update, including store and
	// transport calls.
	Update time.Duration `mapstructure:"update" validate:"min=1s,max=5m"`
	// Poll is the long polling timeout passed to getUpdates.
	Poll time.Duration `mapstructure:"poll" validate:"min=1s,max=5m"`
}

// BotInstances returns the configured bots: the Instances list when present,
// the single Telegram section otherwise.
func (c *Config) BotInstances() []InstanceConfig {
	if len(c.Instances) > 0 {
		return c.Instances
	}
	return []InstanceConfig{c.Telegram}
}
