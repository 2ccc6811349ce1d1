package dto

import (
	"encoding/json"

	"github.com/google/uuid"
)

// EventType enumerates every frame exchanged over a relay session. Each type
// carries a fixed payload shape; unknown types are answered with an error
// event rather than ignored.
type EventType string

// Consumed from sessions.
const (
	EventJoinConversation EventType = "join-conversation"
	EventJoinLink         EventType = "join-link"
	EventSendMessage      EventType = "send-message"
	EventTyping           EventType = "typing"
	EventStopTyping       EventType = "stop-typing"
)

// Produced to sessions.
const (
	EventLoadMessages        EventType = "load-messages"
	EventLoadConversations   EventType = "load-conversations"
	EventNewMessage          EventType = "new-message"
	EventNewConversation     EventType = "new-conversation"
	EventConversationUpdated EventType = "conversation-updated"
	EventUserTyping          EventType = "user-typing"
	EventUserStopTyping      EventType = "user-stop-typing"
	EventError               EventType = "error"
)

// Envelope is the wire frame: a type tag plus the payload for that type.
type Envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// NewEvent serialises an outbound frame.
func NewEvent(t EventType, data any) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Envelope{Type: t, Data: raw})
}

// Inbound payloads.

type JoinConversationPayload struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	IsCreator      bool      `json:"is_creator"`
}

type JoinLinkPayload struct {
	LinkId uuid.UUID `json:"link_id" validate:"required"`
	// CreatorToken optionally proves the session belongs to the link's
	// creator; a mismatch is answered with an error event.
	CreatorToken *uuid.UUID `json:"creator_token,omitempty"`
}

type SendMessagePayload struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	Text           string    `json:"text" validate:"required"`
	IsCreator      bool      `json:"is_creator"`
}

type TypingPayload struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
	IsCreator      bool      `json:"is_creator"`
}

type StopTypingPayload struct {
	ConversationId uuid.UUID `json:"conversation_id" validate:"required"`
}

// Outbound payloads.

type LoadMessagesPayload struct {
	Messages []MessageResponse `json:"messages"`
}

type LoadConversationsPayload struct {
	Conversations []ConversationResponse `json:"conversations"`
}

type NewMessagePayload struct {
	ConversationId uuid.UUID       `json:"conversation_id"`
	Message        MessageResponse `json:"message"`
}

type NewConversationPayload struct {
	Conversation ConversationResponse `json:"conversation"`
}

type ConversationUpdatedPayload struct {
	Conversation ConversationResponse `json:"conversation"`
}

type UserTypingPayload struct {
	IsCreator bool `json:"is_creator"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
