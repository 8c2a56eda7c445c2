package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tontine-app/tontine/internal/realtime"
	"github.com/tontine-app/tontine/pkg/api"
)

func TestSendMessage(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	bob := h.register(t, "bob@example.com", "Bob")
	carol := h.register(t, "carol@example.com", "Carol")
	group := h.createGroup(t, alice, "Savers", 100)
	h.join(t, bob, group.ID)

	room := subscribe(t, h.broker, realtime.GroupTopic(group.ID))

	resp, err := h.messages.SendMessage(ctx, as(bob, &api.SendMessageRequest{
		GroupID: group.ID,
		Content: "  <b>Paid</b> my share & more <script>alert(1)</script>",
	}))
	require.NoError(t, err)
	msg := resp.Msg.Message
	assert.Equal(t, "Paid my share &amp; more", msg.Content)
	assert.Equal(t, "Bob", msg.Sender.Name)

	ev := nextEvent(t, room, realtime.EventMessage)
	assert.Equal(t, group.ID, ev.GroupID)
	payload, ok := ev.Payload.(*api.Message)
	require.True(t, ok)
	assert.Equal(t, msg.ID, payload.ID)

	tests := []struct {
		name    string
		caller  *session
		content string
		code    connect.Code
	}{
		{"non-member", carol, "hello", connect.CodePermissionDenied},
		{"blank", alice, "   ", connect.CodeInvalidArgument},
		{"markup only", alice, "<b></b>", connect.CodeInvalidArgument},
		{"too long", alice, strings.Repeat("é", maxMessageRunes+1), connect.CodeInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.messages.SendMessage(ctx, as(tt.caller, &api.SendMessageRequest{GroupID: group.ID, Content: tt.content}))
			assertCode(t, tt.code, err)
		})
	}

	_, err = h.messages.SendMessage(ctx, as(alice, &api.SendMessageRequest{
		GroupID: group.ID, Content: strings.Repeat("é", maxMessageRunes),
	}))
	require.NoError(t, err)
}

func TestSendMessageEncodedMarkup(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	group := h.createGroup(t, alice, "Savers", 100)

	room := subscribe(t, h.broker, realtime.GroupTopic(group.ID))

	inputs := []string{
		"&lt;script&gt;alert(1)&lt;/script&gt;&lt;img src=x onerror=alert(2)&gt;",
		"&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;",
		"&#60;b&#62;bold&#60;/b&#62;",
	}
	for _, in := range inputs {
		resp, err := h.messages.SendMessage(ctx, as(alice, &api.SendMessageRequest{GroupID: group.ID, Content: in}))
		require.NoError(t, err)
		assert.NotContains(t, resp.Msg.Message.Content, "<", in)
		assert.NotContains(t, resp.Msg.Message.Content, ">", in)

		ev := nextEvent(t, room, realtime.EventMessage)
		payload, ok := ev.Payload.(*api.Message)
		require.True(t, ok)
		assert.NotContains(t, payload.Content, "<", in)
	}

	list, err := h.messages.ListMessages(ctx, as(alice, &api.ListMessagesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Messages, len(inputs))
	for _, m := range list.Msg.Messages {
		assert.NotContains(t, m.Content, "<")
	}
}

func TestSendMessageEscapedLength(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	group := h.createGroup(t, alice, "Savers", 100)

	// Each "&" is stored as "&amp;", five runes.
	_, err := h.messages.SendMessage(ctx, as(alice, &api.SendMessageRequest{
		GroupID: group.ID, Content: strings.Repeat("&", maxMessageRunes/5),
	}))
	require.NoError(t, err)

	_, err = h.messages.SendMessage(ctx, as(alice, &api.SendMessageRequest{
		GroupID: group.ID, Content: strings.Repeat("&", maxMessageRunes/5+1),
	}))
	assertCode(t, connect.CodeInvalidArgument, err)
}

func TestListMessages(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	alice := h.register(t, "alice@example.com", "Alice")
	carol := h.register(t, "carol@example.com", "Carol")
	group := h.createGroup(t, alice, "Savers", 100)

	for _, content := range []string{"first", "second", "third"} {
		_, err := h.messages.SendMessage(ctx, as(alice, &api.SendMessageRequest{GroupID: group.ID, Content: content}))
		require.NoError(t, err)
	}

	resp, err := h.messages.ListMessages(ctx, as(alice, &api.ListMessagesRequest{GroupID: group.ID}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Messages, 3)
	assert.Equal(t, "first", resp.Msg.Messages[0].Content)
	assert.Equal(t, "Alice", resp.Msg.Messages[0].Sender.Name)

	// A limit keeps the newest messages, still oldest first.
	resp, err = h.messages.ListMessages(ctx, as(alice, &api.ListMessagesRequest{GroupID: group.ID, Limit: 2}))
	require.NoError(t, err)
	require.Len(t, resp.Msg.Messages, 2)
	assert.Equal(t, "second", resp.Msg.Messages[0].Content)

	_, err = h.messages.ListMessages(ctx, as(carol, &api.ListMessagesRequest{GroupID: group.ID}))
	assertCode(t, connect.CodePermissionDenied, err)
}
