package entity

import (
	"time"

	"github.com/google/uuid"
)

// Link is a shareable entry point. Anonymous visitors who open it can start
// conversations with the creator identified by CreatorId.
type Link struct {
	Id        uuid.UUID
	CreatorId uuid.UUID
	CreatedAt time.Time

	// ConversationIds holds only promoted conversations, in promotion order.
	// A conversation that never received a message is never listed here.
	ConversationIds []uuid.UUID
}
