package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/edgard/relaybot/internal/relay"
)

type published struct {
	key string
	msg Envelope
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) Publish(_ context.Context, key string, msg Envelope) error {
	f.sent = append(f.sent, published{key: key, msg: msg})
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

func TestMembershipCallbacksPublish(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	cbs := MembershipCallbacks(pub, "4242")
	identify := int64(17)
	ev := relay.MembershipEvent{ChatID: -300, ChatTitle: "support", MessageID: 8, Date: 1700000000}

	if err := cbs.Invite(context.Background(), &identify, ev); err != nil {
		t.Fatalf("Invite() error = %v", err)
	}
	if err := cbs.Left(context.Background(), nil, ev); err != nil {
		t.Fatalf("Left() error = %v", err)
	}

	if len(pub.sent) != 2 || pub.sent[0].key != KeyBotInvited || pub.sent[1].key != KeyBotLeft {
		t.Fatalf("published = %+v", pub.sent)
	}
	inv := pub.sent[0].msg
	if _, err := uuid.Parse(inv.Meta.ID); err != nil {
		t.Fatalf("Meta.ID = %q is not a uuid: %v", inv.Meta.ID, err)
	}
	if inv.Meta.Type != KeyBotInvited || inv.Payload.Bot != "4242" || inv.Payload.ChatID != -300 {
		t.Fatalf("invite envelope = %+v", inv)
	}
	if inv.Payload.Identify == nil || *inv.Payload.Identify != 17 {
		t.Fatalf("Identify = %v, want 17", inv.Payload.Identify)
	}
	if pub.sent[1].msg.Payload.Identify != nil {
		t.Fatal("left envelope should carry no identify")
	}
}

func TestEnvelopeJSON(t *testing.T) {
	t.Parallel()

	env := newEnvelope(KeyBotLeft, MembershipPayload{Bot: "1", ChatID: -5})
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded map[string]map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if decoded["meta"]["type"] != KeyBotLeft || decoded["payload"]["chat_id"] != float64(-5) {
		t.Fatalf("json = %s", raw)
	}
	if _, ok := decoded["payload"]["identify"]; ok {
		t.Fatalf("identify should be omitted: %s", raw)
	}
}

func TestMembershipCallbacksWithRelay(t *testing.T) {
	t.Parallel()

	pubErr := errors.New("channel closed")
	pub := &fakePublisher{err: pubErr}
	m := relay.NewMembership(4242, nil, MembershipCallbacks(pub, "4242"), nil)

	err := m.HandleMembersAdded(context.Background(), relay.MembershipEvent{ChatID: -300, Members: []int64{4242}})
	if !errors.Is(err, relay.ErrCallback) || !errors.Is(err, pubErr) {
		t.Fatalf("HandleMembersAdded() error = %v", err)
	}
	if len(pub.sent) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.sent))
	}
}
