package events

import (
	"context"

	"github.com/edgard/relaybot/internal/relay"
)

// MembershipCallbacks returns relay callbacks that publish the bot's own
// invites and removals through pub. Publish errors are returned unchanged,
// so the membership handler reports them as callback failures.
func MembershipCallbacks(pub Publisher, bot relay.BotIdentity) relay.Callbacks {
	publish := func(key string) relay.Callback {
		return func(ctx context.Context, identify *int64, ev relay.MembershipEvent) error {
			return pub.Publish(ctx, key, newEnvelope(key, newMembershipPayload(bot, identify, ev)))
		}
	}
	return relay.Callbacks{
		Invite: publish(KeyBotInvited),
		Left:   publish(KeyBotLeft),
	}
}
