package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/edgard/relaybot/internal/relay"
)

// MessageRelay routes inbound messages; implemented by *relay.Relay.
type MessageRelay interface {
	Handle(ctx context.Context, msg relay.Message) (relay.Outcome, error)
}

// MembershipHandler reacts to membership events; implemented by *relay.Membership.
type MembershipHandler interface {
	HandleMembersAdded(ctx context.Context, ev relay.MembershipEvent) error
	HandleMemberLeft(ctx context.Context, ev relay.MembershipEvent) error
}

// HandlerDeps provides dependencies for the update handlers of one bot instance.
type HandlerDeps struct {
	Logger        *slog.Logger
	Relay         MessageRelay
	Membership    MembershipHandler
	UpdateTimeout time.Duration
}
