package websocket

import "github.com/google/uuid"

type RoomKind string

const (
	// RoomConversation fans messages and typing hints out to the two sides
	// of one thread.
	RoomConversation RoomKind = "conversation"
	// RoomLink fans conversation-list updates out to the creator's dashboard
	// sessions for one link.
	RoomLink RoomKind = "link"
)

// RoomKey names one broadcast group. Comparable, so it keys the membership
// table directly.
type RoomKey struct {
	Kind RoomKind
	Id   uuid.UUID
}

func ConversationRoom(conversationId uuid.UUID) RoomKey {
	return RoomKey{Kind: RoomConversation, Id: conversationId}
}

func LinkRoom(linkId uuid.UUID) RoomKey {
	return RoomKey{Kind: RoomLink, Id: linkId}
}
