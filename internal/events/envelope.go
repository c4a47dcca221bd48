// Package events publishes membership events of relay bots to a RabbitMQ
// topic exchange, for the process that manages many bot instances.
package events

import (
	"time"

	"github.com/edgard/relaybot/internal/relay"
)

// Routing keys of the published events.
const (
	KeyBotInvited = "relaybot.membership.invited"
	KeyBotLeft    = "relaybot.membership.left"
)

// Meta describes a published event.
type Meta struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID *string   `json:"correlation_id,omitempty"`
}

// Envelope is the JSON body of every published message.
type Envelope struct {
	Meta    Meta              `json:"meta"`
	Payload MembershipPayload `json:"payload"`
}

// MembershipPayload reports the bot joining or leaving a chat.
type MembershipPayload struct {
	Bot       string `json:"bot"`
	Identify  *int64 `json:"identify,omitempty"`
	ChatID    int64  `json:"chat_id"`
	ChatTitle string `json:"chat_title,omitempty"`
	MessageID int    `json:"message_id"`
	Date      int    `json:"date"`
}

func newMembershipPayload(bot relay.BotIdentity, identify *int64, ev relay.MembershipEvent) MembershipPayload {
	return MembershipPayload{
		Bot:       string(bot),
		Identify:  identify,
		ChatID:    ev.ChatID,
		ChatTitle: ev.ChatTitle,
		MessageID: ev.MessageID,
		Date:      ev.Date,
	}
}
