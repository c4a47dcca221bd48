package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HasNewMembers matches new_chat_members service messages.
func HasNewMembers(update *models.Update) bool {
	return update.Message != nil && len(update.Message.NewChatMembers) > 0
}

// HasLeftMember matches left_chat_member service messages.
func HasLeftMember(update *models.Update) bool {
	return update.Message != nil && update.Message.LeftChatMember != nil
}

// NewMembersAddedHandler returns a handler for new_chat_members messages.
func NewMembersAddedHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		ev := MembersAddedFromModel(update.Message)
		if err := deps.Membership.HandleMembersAdded(ctx, ev); err != nil {
			deps.Logger.ErrorContext(ctx, "Members added callback failed",
				"handler", "members_added", "chat_id", ev.ChatID, "error", err)
		}
	}
}

// NewMemberLeftHandler returns a handler for left_chat_member messages.
func NewMemberLeftHandler(deps HandlerDeps) tgbot.HandlerFunc {
	return func(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
		ev := MemberLeftFromModel(update.Message)
		if err := deps.Membership.HandleMemberLeft(ctx, ev); err != nil {
			deps.Logger.ErrorContext(ctx, "Member left callback failed",
				"handler", "member_left", "chat_id", ev.ChatID, "error", err)
		}
	}
}
