package entity

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is one anonymous-visitor thread scoped to exactly one Link.
// LinkId is a back-reference for lookup; the link cascade deletes
// conversations explicitly rather than via reference counting.
type Conversation struct {
	Id                 uuid.UUID
	LinkId             uuid.UUID
	AnonymousSessionId uuid.UUID
	Messages           []Message
	CreatedAt          time.Time
	LastMessageAt      *time.Time

	// Visible flips to true exactly once, on the first message, and is never
	// reset even if every message later expires.
	Visible bool
}
