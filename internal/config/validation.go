package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/edgard/relaybot/internal/relay"
)

// Validate checks the configuration as a whole: struct tags on every
// section, each bot instance, and the rules that span sections.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("bot_token", validateBotToken); err != nil {
		return fmt.Errorf("register bot_token validation: %w", err)
	}

	if err := validate.Struct(c); err != nil {
		return err
	}

	seen := make(map[relay.BotIdentity]int)
	for i, inst := range c.BotInstances() {
		if err := validate.Struct(inst); err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
		id, err := relay.ParseIdentity(inst.Token)
		if err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("instance %d: bot %s is already configured by instance %d", i, id, prev)
		}
		seen[id] = i
	}

	switch c.Store.Driver {
	case "redis":
		if c.Store.Redis.URL == "" {
			return fmt.Errorf("store.redis.url is required for the redis driver")
		}
	case "sqlite":
		if c.Store.SQLite.Path == "" {
			return fmt.Errorf("store.sqlite.path is required for the sqlite driver")
		}
	}
	return nil
}

// validateBotToken accepts tokens that relay.ParseIdentity accepts.
func validateBotToken(fl validator.FieldLevel) bool {
	_, err := relay.ParseIdentity(fl.Field().String())
	return err == nil
}
