package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler pairs a handler with the updates it serves and its middleware.
type RegisteredHandler struct {
	Name       string
	Match      func(update *models.Update) bool
	Handler    tgbot.HandlerFunc
	Middleware []tgbot.Middleware
}

// RegisterAll returns the handlers of a relay bot instance. The matchers are
// disjoint: service messages carry no relayable content. Anything else falls
// through to the library's default handler and is ignored.
func RegisterAll(deps HandlerDeps) []RegisteredHandler {
	detached := []tgbot.Middleware{Detached(deps.UpdateTimeout)}

	return []RegisteredHandler{
		{
			Name:       "members_added",
			Match:      HasNewMembers,
			Handler:    NewMembersAddedHandler(deps),
			Middleware: detached,
		},
		{
			Name:       "member_left",
			Match:      HasLeftMember,
			Handler:    NewMemberLeftHandler(deps),
			Middleware: detached,
		},
		{
			Name:       "relay",
			Match:      IsRelayable,
			Handler:    NewRelayHandler(deps),
			Middleware: detached,
		},
	}
}
