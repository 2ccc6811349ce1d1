package dto

import (
	"time"

	"github.com/google/uuid"
)

// ArchiveMessageTask is published on the archive topic after every successful
// append, so the durable backend is written off the mutation path.
type ArchiveMessageTask struct {
	ConversationId uuid.UUID `json:"conversation_id"`
	MessageId      string    `json:"message_id"`
	Text           string    `json:"text"`
	AuthorRole     string    `json:"author_role"`
	SentAt         time.Time `json:"sent_at"`
}
