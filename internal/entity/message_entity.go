package entity

import "time"

type Role string

const (
	RoleCreator   Role = "creator"
	RoleAnonymous Role = "anonymous"
)

// RoleFromCreatorFlag maps the wire-level is_creator flag to a Role.
func RoleFromCreatorFlag(isCreator bool) Role {
	if isCreator {
		return RoleCreator
	}
	return RoleAnonymous
}

// Message is one chat line. Id is a ULID derived from SentAt plus a random
// suffix, so ids sort by arrival even for near-simultaneous sends. SentAt is
// assigned by the relay, never trusted from the sender.
type Message struct {
	Id         string
	Text       string
	AuthorRole Role
	SentAt     time.Time
}
