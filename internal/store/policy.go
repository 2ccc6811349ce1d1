package store

import (
	"time"

	"whisperlink-be/internal/entity"
)

// TTLPolicy holds the retention windows applied by both the lazy read-time
// filtering and the periodic sweep. All predicates are pure functions of the
// entity and the supplied instant.
type TTLPolicy struct {
	// LinkTTL is the maximum age of a link. Zero means links never expire.
	LinkTTL time.Duration

	// MessageTTL is the maximum age of an individual message.
	MessageTTL time.Duration

	// EmptyConversationGrace is how long an unpromoted conversation (visitor
	// opened the link but never sent anything) is kept before deletion.
	EmptyConversationGrace time.Duration
}

func (p TTLPolicy) LinkExpired(l *entity.Link, now time.Time) bool {
	if p.LinkTTL <= 0 {
		return false
	}
	return now.Sub(l.CreatedAt) > p.LinkTTL
}

func (p TTLPolicy) MessageExpired(m entity.Message, now time.Time) bool {
	if p.MessageTTL <= 0 {
		return false
	}
	return now.Sub(m.SentAt) > p.MessageTTL
}

// Abandoned reports whether an unpromoted conversation outlived its grace
// period. Promoted conversations are never abandoned; once visible, a thread
// is only removed by its link's cascade.
func (p TTLPolicy) Abandoned(c *entity.Conversation, now time.Time) bool {
	if c.Visible {
		return false
	}
	return now.Sub(c.CreatedAt) > p.EmptyConversationGrace
}
