package contract

import (
	"context"

	"whisperlink-be/internal/entity"

	"github.com/google/uuid"
)

// MessageArchive is the pluggable durable collaborator behind the relay. The
// in-memory store remains the source of truth; the archive only mirrors
// appended messages with its own TTL mechanics, so a restart loses sessions
// but not recent history.
type MessageArchive interface {
	SaveMessage(ctx context.Context, conversationId uuid.UUID, msg entity.Message) error

	// Messages returns the archived messages of a conversation in send order.
	Messages(ctx context.Context, conversationId uuid.UUID) ([]entity.Message, error)

	// DeleteConversation drops every archived message of a conversation,
	// called when the sweep cascades a link.
	DeleteConversation(ctx context.Context, conversationId uuid.UUID) error

	Close() error
}
