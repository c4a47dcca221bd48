package relay

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
)

// Callback is invoked when the bot itself joins or leaves a chat. identify is
// the caller-supplied instance tag and may be nil.
type Callback func(ctx context.Context, identify *int64, ev MembershipEvent) error

// Callbacks holds the optional membership callbacks; a nil field means the
// corresponding event is ignored.
type Callbacks struct {
	Invite Callback
	Left   Callback
}

// Membership reacts to member added / member left events.
type Membership struct {
	botUserID int64
	identify  *int64
	callbacks Callbacks
	logger    *slog.Logger
}

// NewMembership creates a handler that fires callbacks for events about botUserID.
func NewMembership(botUserID int64, identify *int64, callbacks Callbacks, logger *slog.Logger) *Membership {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Membership{
		botUserID: botUserID,
		identify:  identify,
		callbacks: callbacks,
		logger:    logger.With("component", "membership"),
	}
}

// HandleMembersAdded invokes the invite callback once if the bot is among the
// added members.
func (m *Membership) HandleMembersAdded(ctx context.Context, ev MembershipEvent) error {
	if m.callbacks.Invite == nil {
		return nil
	}
	if !slices.Contains(ev.Members, m.botUserID) {
		return nil
	}
	m.logger.InfoContext(ctx, "Bot added to chat", "chat_id", ev.ChatID, "chat_title", ev.ChatTitle)
	if err := m.callbacks.Invite(ctx, m.identify, ev); err != nil {
		return fmt.Errorf("%w: invite in chat %d: %w", ErrCallback, ev.ChatID, err)
	}
	return nil
}

// HandleMemberLeft invokes the left callback if the departing member is the bot.
func (m *Membership) HandleMemberLeft(ctx context.Context, ev MembershipEvent) error {
	if m.callbacks.Left == nil {
		return nil
	}
	if len(ev.Members) == 0 || ev.Members[0] != m.botUserID {
		return nil
	}
	m.logger.InfoContext(ctx, "Bot removed from chat", "chat_id", ev.ChatID, "chat_title", ev.ChatTitle)
	if err := m.callbacks.Left(ctx, m.identify, ev); err != nil {
		return fmt.Errorf("%w: left chat %d: %w", ErrCallback, ev.ChatID, err)
	}
	return nil
}
