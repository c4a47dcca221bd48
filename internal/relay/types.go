// Package relay implements the routing rules that bridge a staff "super chat"
// with the origin chats that contact the bot: relaying inbound messages into
// the super chat, resolving staff replies back to their origin chat, and
// surfacing membership events that concern the bot itself.
package relay

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind enumerates the message kinds the relay accepts. Every kind is routed
// identically; the kind only decides whether a message enters the relay at all.
type Kind int

const (
	KindUnsupported Kind = iota
	KindText
	KindContact
	KindAnimation
	KindAudio
	KindDocument
	KindPhoto
	KindSticker
	KindVideo
	KindVoice
)

var kindNames = [...]string{
	KindUnsupported: "unsupported",
	KindText:        "text",
	KindContact:     "contact",
	KindAnimation:   "animation",
	KindAudio:       "audio",
	KindDocument:    "document",
	KindPhoto:       "photo",
	KindSticker:     "sticker",
	KindVideo:       "video",
	KindVoice:       "voice",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Relayable reports whether messages of this kind are handled by the relay.
func (k Kind) Relayable() bool {
	return k > KindUnsupported && int(k) < len(kindNames)
}

// ReplyTarget describes the message a staff reply refers to.
type ReplyTarget struct {
	MessageID int
	// ForwardedFromChat is the chat the replied-to message was originally
	// forwarded from, when the transport exposes it.
	ForwardedFromChat *int64
}

// Message is an inbound chat message as seen by the relay. Content other
// than Text is opaque and stays with the transport.
type Message struct {
	ChatID    int64
	MessageID int
	SenderID  int64
	Kind      Kind
	Text      string
	ReplyTo   *ReplyTarget
}

// MembershipEvent reports members joining or leaving a chat. Left events
// carry exactly one member.
type MembershipEvent struct {
	ChatID    int64
	ChatTitle string
	MessageID int
	Members   []int64
	Date      int
}

// BotIdentity is the stable identifier of a bot, taken from its token.
type BotIdentity string

// ParseIdentity extracts the bot identity from a token of the form
// "<digits>:<secret>".
func ParseIdentity(token string) (BotIdentity, error) {
	id, secret, ok := strings.Cut(token, ":")
	if !ok || id == "" {
		return "", fmt.Errorf("malformed bot token: missing identity prefix")
	}
	if secret == "" {
		return "", fmt.Errorf("malformed bot token: missing secret")
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("malformed bot token: identity %q is not numeric", id)
		}
	}
	return BotIdentity(id), nil
}

// UserID returns the numeric user id of the bot account.
func (id BotIdentity) UserID() (int64, error) {
	uid, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bot identity %q: %w", id, err)
	}
	return uid, nil
}

// Key returns the correlation key for a message relayed into the super chat.
// Identities are digits only, so the separator keeps keys unique per bot.
func Key(id BotIdentity, messageID int) string {
	return string(id) + "-" + strconv.Itoa(messageID)
}

// Outcome is the routing decision taken for one inbound message.
type Outcome int

const (
	OutcomeFailed Outcome = iota
	// OutcomeStarted: the start command was answered locally.
	OutcomeStarted
	// OutcomeRelayed: an origin chat message was forwarded into the super chat.
	OutcomeRelayed
	// OutcomeDelivered: a staff reply was copied to its origin chat.
	OutcomeDelivered
	// OutcomeUnresolvable: a staff reply had no known origin chat.
	OutcomeUnresolvable
	// OutcomeDeliveryFailed: the transport rejected the message.
	OutcomeDeliveryFailed
	// OutcomeEchoed: a super chat message without reply target was forwarded
	// back into the super chat.
	OutcomeEchoed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeStarted:
		return "started"
	case OutcomeRelayed:
		return "relayed"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeUnresolvable:
		return "unresolvable"
	case OutcomeDeliveryFailed:
		return "delivery_failed"
	case OutcomeEchoed:
		return "echoed"
	default:
		return "failed"
	}
}
