package dto

import (
	"time"

	"github.com/google/uuid"
)

type MessageResponse struct {
	Id         string    `json:"id"`
	Text       string    `json:"text"`
	AuthorRole string    `json:"author_role"`
	SentAt     time.Time `json:"sent_at"`
}

type ConversationResponse struct {
	Id                 uuid.UUID         `json:"id"`
	LinkId             uuid.UUID         `json:"link_id"`
	AnonymousSessionId uuid.UUID         `json:"anonymous_session_id"`
	Messages           []MessageResponse `json:"messages"`
	CreatedAt          time.Time         `json:"created_at"`
	LastMessageAt      *time.Time        `json:"last_message_at"`
}
