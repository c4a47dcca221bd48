package handlers

import (
	"github.com/go-telegram/bot/models"

	"github.com/edgard/relaybot/internal/relay"
)

// KindOf classifies a Telegram message into one of the relayable kinds.
// Animations also carry a document, so they are checked first.
func KindOf(m *models.Message) relay.Kind {
	switch {
	case m == nil:
		return relay.KindUnsupported
	case m.Text != "":
		return relay.KindText
	case m.Contact != nil:
		return relay.KindContact
	case m.Animation != nil:
		return relay.KindAnimation
	case m.Audio != nil:
		return relay.KindAudio
	case m.Document != nil:
		return relay.KindDocument
	case len(m.Photo) > 0:
		return relay.KindPhoto
	case m.Sticker != nil:
		return relay.KindSticker
	case m.Video != nil:
		return relay.KindVideo
	case m.Voice != nil:
		return relay.KindVoice
	default:
		return relay.KindUnsupported
	}
}

// MessageFromModel converts a Telegram message into the relay's view of it.
func MessageFromModel(m *models.Message) relay.Message {
	msg := relay.Message{
		ChatID:    m.Chat.ID,
		MessageID: m.ID,
		Kind:      KindOf(m),
		Text:      m.Text,
	}
	if m.From != nil {
		msg.SenderID = m.From.ID
	}
	if r := m.ReplyToMessage; r != nil {
		msg.ReplyTo = &relay.ReplyTarget{
			MessageID:         r.ID,
			ForwardedFromChat: forwardedFromChat(r.ForwardOrigin),
		}
	}
	return msg
}

// forwardedFromChat returns the chat a message was forwarded from. Only
// chat and channel origins identify a chat; user origins do not.
func forwardedFromChat(origin *models.MessageOrigin) *int64 {
	if origin == nil {
		return nil
	}
	switch {
	case origin.MessageOriginChat != nil:
		id := origin.MessageOriginChat.SenderChat.ID
		return &id
	case origin.MessageOriginChannel != nil:
		id := origin.MessageOriginChannel.Chat.ID
		return &id
	default:
		return nil
	}
}

// MembersAddedFromModel converts a new_chat_members service message.
func MembersAddedFromModel(m *models.Message) relay.MembershipEvent {
	ev := membershipEvent(m)
	for _, u := range m.NewChatMembers {
		ev.Members = append(ev.Members, u.ID)
	}
	return ev
}

// MemberLeftFromModel converts a left_chat_member service message.
func MemberLeftFromModel(m *models.Message) relay.MembershipEvent {
	ev := membershipEvent(m)
	if m.LeftChatMember != nil {
		ev.Members = []int64{m.LeftChatMember.ID}
	}
	return ev
}

func membershipEvent(m *models.Message) relay.MembershipEvent {
	return relay.MembershipEvent{
		ChatID:    m.Chat.ID,
		ChatTitle: m.Chat.Title,
		MessageID: m.ID,
		Date:      m.Date,
	}
}
