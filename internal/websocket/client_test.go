package websocket

import (
	"encoding/json"
	"testing"

	"whisperlink-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHandler captures which gateway method a frame was routed to.
type recordingHandler struct {
	joinedConversation *dto.JoinConversationPayload
	joinedLink         *dto.JoinLinkPayload
	sent               *dto.SendMessagePayload
	typing             *dto.TypingPayload
	stopTyping         *dto.StopTypingPayload
	disconnected       bool
}

func (h *recordingHandler) HandleJoinConversation(c *Client, p dto.JoinConversationPayload) {
	h.joinedConversation = &p
}
func (h *recordingHandler) HandleJoinLink(c *Client, p dto.JoinLinkPayload)       { h.joinedLink = &p }
func (h *recordingHandler) HandleSendMessage(c *Client, p dto.SendMessagePayload) { h.sent = &p }
func (h *recordingHandler) HandleTyping(c *Client, p dto.TypingPayload)           { h.typing = &p }
func (h *recordingHandler) HandleStopTyping(c *Client, p dto.StopTypingPayload)   { h.stopTyping = &p }
func (h *recordingHandler) HandleDisconnect(c *Client)                            { h.disconnected = true }

func dispatchFrame(t *testing.T, c *Client, eventType dto.EventType, data any) {
	t.Helper()

	raw, err := dto.NewEvent(eventType, data)
	require.NoError(t, err)
	c.dispatch(raw)
}

func errorMessage(t *testing.T, c *Client) string {
	t.Helper()

	select {
	case payload := <-c.Send:
		var env dto.Envelope
		require.NoError(t, json.Unmarshal(payload, &env))
		require.Equal(t, dto.EventError, env.Type)
		var p dto.ErrorPayload
		require.NoError(t, json.Unmarshal(env.Data, &p))
		return p.Message
	default:
		t.Fatal("expected an error event")
		return ""
	}
}

func TestDispatch_RoutesByType(t *testing.T) {
	hub := newTestHub()
	handler := &recordingHandler{}
	c := NewClient(hub, nil, handler)

	convId := uuid.New()
	linkId := uuid.New()

	dispatchFrame(t, c, dto.EventJoinConversation, dto.JoinConversationPayload{ConversationId: convId})
	require.NotNil(t, handler.joinedConversation)
	assert.Equal(t, convId, handler.joinedConversation.ConversationId)

	dispatchFrame(t, c, dto.EventJoinLink, dto.JoinLinkPayload{LinkId: linkId})
	require.NotNil(t, handler.joinedLink)
	assert.Equal(t, linkId, handler.joinedLink.LinkId)

	dispatchFrame(t, c, dto.EventSendMessage, dto.SendMessagePayload{ConversationId: convId, Text: "hi", IsCreator: true})
	require.NotNil(t, handler.sent)
	assert.Equal(t, "hi", handler.sent.Text)
	assert.True(t, handler.sent.IsCreator)

	dispatchFrame(t, c, dto.EventTyping, dto.TypingPayload{ConversationId: convId})
	assert.NotNil(t, handler.typing)

	dispatchFrame(t, c, dto.EventStopTyping, dto.StopTypingPayload{ConversationId: convId})
	assert.NotNil(t, handler.stopTyping)
}

func TestDispatch_MalformedFrame(t *testing.T) {
	hub := newTestHub()
	handler := &recordingHandler{}
	c := NewClient(hub, nil, handler)

	c.dispatch([]byte("not json"))

	assert.Equal(t, "malformed event", errorMessage(t, c))
	assert.Nil(t, handler.sent)
}

func TestDispatch_UnknownEventType(t *testing.T) {
	hub := newTestHub()
	c := NewClient(hub, nil, &recordingHandler{})

	dispatchFrame(t, c, dto.EventType("bogus"), nil)

	assert.Equal(t, "unknown event type", errorMessage(t, c))
}

func TestDispatch_ValidationFailure(t *testing.T) {
	hub := newTestHub()
	handler := &recordingHandler{}
	c := NewClient(hub, nil, handler)

	// Missing required text.
	dispatchFrame(t, c, dto.EventSendMessage, dto.SendMessagePayload{ConversationId: uuid.New()})

	assert.Equal(t, "invalid send-message payload", errorMessage(t, c))
	assert.Nil(t, handler.sent)
}
