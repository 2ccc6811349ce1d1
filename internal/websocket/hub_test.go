package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestHub() *Hub {
	return NewHub(nopLogger{})
}

func drain(c *Client) [][]byte {
	var frames [][]byte
	for {
		select {
		case payload := <-c.Send:
			frames = append(frames, payload)
		default:
			return frames
		}
	}
}

func TestJoinAndBroadcast(t *testing.T) {
	hub := newTestHub()
	room := ConversationRoom(uuid.New())

	a := NewClient(hub, nil, nil)
	b := NewClient(hub, nil, nil)
	hub.Join(a, room)
	hub.Join(b, room)

	require.Equal(t, 2, hub.RoomSize(room))

	hub.Broadcast(room, []byte("frame"))

	assert.Len(t, drain(a), 1)
	assert.Len(t, drain(b), 1)
}

func TestBroadcastExcept_SkipsSender(t *testing.T) {
	hub := newTestHub()
	room := ConversationRoom(uuid.New())

	sender := NewClient(hub, nil, nil)
	other := NewClient(hub, nil, nil)
	hub.Join(sender, room)
	hub.Join(other, room)

	hub.BroadcastExcept(room, []byte("typing"), sender)

	assert.Empty(t, drain(sender))
	assert.Len(t, drain(other), 1)
}

func TestBroadcast_OnlyReachesRoomMembers(t *testing.T) {
	hub := newTestHub()
	roomA := ConversationRoom(uuid.New())
	roomB := ConversationRoom(uuid.New())

	inA := NewClient(hub, nil, nil)
	inB := NewClient(hub, nil, nil)
	hub.Join(inA, roomA)
	hub.Join(inB, roomB)

	hub.Broadcast(roomA, []byte("frame"))

	assert.Len(t, drain(inA), 1)
	assert.Empty(t, drain(inB))
}

func TestClientCanJoinBothRoomKinds(t *testing.T) {
	hub := newTestHub()
	id := uuid.New()
	convRoom := ConversationRoom(id)
	linkRoom := LinkRoom(id)

	// Same id, different kinds: distinct rooms.
	c := NewClient(hub, nil, nil)
	hub.Join(c, convRoom)
	hub.Join(c, linkRoom)

	assert.Equal(t, 1, hub.RoomSize(convRoom))
	assert.Equal(t, 1, hub.RoomSize(linkRoom))

	hub.Broadcast(convRoom, []byte("one"))
	hub.Broadcast(linkRoom, []byte("two"))
	assert.Len(t, drain(c), 2)
}

func TestRemoveClient_DropsAllMemberships(t *testing.T) {
	hub := newTestHub()
	roomA := ConversationRoom(uuid.New())
	roomB := LinkRoom(uuid.New())

	c := NewClient(hub, nil, nil)
	hub.Join(c, roomA)
	hub.Join(c, roomB)

	assert.True(t, hub.RemoveClient(c))
	assert.Equal(t, 0, hub.RoomSize(roomA))
	assert.Equal(t, 0, hub.RoomSize(roomB))

	// Second removal reports not-registered so Send is closed once.
	assert.False(t, hub.RemoveClient(c))
}

func TestLeave_KeepsOtherMemberships(t *testing.T) {
	hub := newTestHub()
	roomA := ConversationRoom(uuid.New())
	roomB := ConversationRoom(uuid.New())

	c := NewClient(hub, nil, nil)
	hub.Join(c, roomA)
	hub.Join(c, roomB)

	hub.Leave(c, roomA)

	assert.Equal(t, 0, hub.RoomSize(roomA))
	assert.Equal(t, 1, hub.RoomSize(roomB))
}

func TestDropRooms(t *testing.T) {
	hub := newTestHub()
	dead := ConversationRoom(uuid.New())
	alive := ConversationRoom(uuid.New())

	c := NewClient(hub, nil, nil)
	hub.Join(c, dead)
	hub.Join(c, alive)

	hub.DropRooms(dead)

	assert.Equal(t, 0, hub.RoomSize(dead))
	assert.Equal(t, 1, hub.RoomSize(alive))

	// The session itself stays connected and reachable.
	hub.Broadcast(alive, []byte("frame"))
	assert.Len(t, drain(c), 1)
}

func TestDeliver_DropsFrameWhenBufferFull(t *testing.T) {
	hub := newTestHub()
	room := ConversationRoom(uuid.New())

	c := NewClient(hub, nil, nil)
	hub.Join(c, room)

	for i := 0; i < cap(c.Send); i++ {
		c.Send <- []byte("fill")
	}

	// Must not block or panic.
	hub.Broadcast(room, []byte("overflow"))
	assert.Len(t, drain(c), cap(c.Send))
}
