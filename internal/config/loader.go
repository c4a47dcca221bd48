package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "RELAYBOT"

// envKeys are bound explicitly because they have no default that would make
// viper aware of them.
var envKeys = []string{
	"telegram.token",
	"telegram.super_chat_id",
	"telegram.start_text",
	"telegram.identify",
	"events.amqp_url",
}

// Load loads and validates configuration from:
// 1. Default values
// 2. the YAML file at path, if it exists (an empty path skips the file)
// 3. RELAYBOT_* environment variables
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("%w: bind env %s: %v", ErrConfiguration, key, err)
		}
	}

	if err := readConfigFile(v, path); err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}
	applyInstanceDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and env still apply.
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("telegram.start_command", DefaultStartCommand)

	v.SetDefault("messages.unresolvable_origin", DefaultMessages.UnresolvableOrigin)
	v.SetDefault("messages.delivery_failure", DefaultMessages.DeliveryFailure)

	v.SetDefault("store.driver", DefaultStoreDriver)
	v.SetDefault("store.redis.url", DefaultRedisURL)
	v.SetDefault("store.redis.ttl", 0)
	v.SetDefault("store.sqlite.path", DefaultSQLitePath)

	v.SetDefault("events.exchange", DefaultEventsExchange)

	for name, task := range DefaultTasks {
		v.SetDefault("scheduler.tasks."+name+".enabled", task.Enabled)
		v.SetDefault("scheduler.tasks."+name+".schedule", task.Schedule)
	}

	v.SetDefault("timeouts.update", DefaultUpdateTimeout)
	v.SetDefault("timeouts.poll", DefaultPollTimeout)
}

// applyInstanceDefaults fills per-instance fields the list entries may omit.
func applyInstanceDefaults(cfg *Config) {
	for i := range cfg.Instances {
		if cfg.Instances[i].StartCommand == "" {
			cfg.Instances[i].StartCommand = DefaultStartCommand
		}
	}
}
