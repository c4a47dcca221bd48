package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultStartCommand = "/start"

	DefaultStoreDriver = "redis"
	DefaultRedisURL    = "redis://localhost:6379/0"
	DefaultSQLitePath  = "relay.db"

	DefaultEventsExchange = "relaybot.membership"

	DefaultUpdateTimeout = 30 * time.Second
	DefaultPollTimeout   = 10 * time.Second
)

// Default notices, sent to the sender of a message that could not be relayed.
var DefaultMessages = MessagesConfig{
	UnresolvableOrigin: "Unable to deliver the message: author not found",
	DeliveryFailure:    "Unable to deliver the message: the author may have blocked the bot",
}

// Default scheduled tasks, using cron expressions with a seconds field.
var DefaultTasks = map[string]TaskConfig{
	"store_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
	"store_health":      {Enabled: true, Schedule: "0 */5 * * * *"},
}
