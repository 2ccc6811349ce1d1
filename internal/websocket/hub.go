package websocket

import (
	"sync"

	"whisperlink-be/internal/pkg/logger"
)

// Hub owns the room membership table: room key -> set of live sessions, plus
// the reverse index so a disconnect is one deterministic cleanup. Join and
// Leave are the only mutators; broadcast delivery is fire-and-forget per
// member and never blocks on a slow session.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[RoomKey]map[*Client]struct{}
	members map[*Client]map[RoomKey]struct{}

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		rooms:      make(map[RoomKey]map[*Client]struct{}),
		members:    make(map[*Client]map[RoomKey]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.members[client]; !ok {
				h.members[client] = make(map[RoomKey]struct{})
			}
			h.mu.Unlock()
			h.logger.Info("Hub", "Session registered", map[string]interface{}{"session_id": client.Id})

		case client := <-h.unregister:
			if h.RemoveClient(client) {
				close(client.Send)
				h.logger.Info("Hub", "Session unregistered", map[string]interface{}{"session_id": client.Id})
			}
		}
	}
}

func (h *Hub) Join(c *Client, key RoomKey) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.members[c]; !ok {
		h.members[c] = make(map[RoomKey]struct{})
	}
	if _, ok := h.rooms[key]; !ok {
		h.rooms[key] = make(map[*Client]struct{})
	}
	h.rooms[key][c] = struct{}{}
	h.members[c][key] = struct{}{}
}

func (h *Hub) Leave(c *Client, key RoomKey) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detach(c, key)
}

// RemoveClient drops every room membership for a session. Reports whether the
// session was still registered, so Send is closed exactly once.
func (h *Hub) RemoveClient(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	keys, ok := h.members[c]
	if !ok {
		return false
	}
	for key := range keys {
		if room, ok := h.rooms[key]; ok {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, key)
			}
		}
	}
	delete(h.members, c)
	return true
}

// DropRooms removes rooms whose backing entities were garbage-collected, so
// the hub does not keep broadcasting to rooms with no valid target. Sessions
// stay connected; only the memberships go.
func (h *Hub) DropRooms(keys ...RoomKey) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, key := range keys {
		room, ok := h.rooms[key]
		if !ok {
			continue
		}
		for c := range room {
			delete(h.members[c], key)
		}
		delete(h.rooms, key)
	}
}

func (h *Hub) RoomSize(key RoomKey) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[key])
}

// Broadcast delivers a frame to every member of the room, sender included.
func (h *Hub) Broadcast(key RoomKey, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[key] {
		h.deliver(c, payload)
	}
}

// BroadcastExcept delivers to every member but one; used for typing hints
// where a sender echo would flicker.
func (h *Hub) BroadcastExcept(key RoomKey, payload []byte, except *Client) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[key] {
		if c == except {
			continue
		}
		h.deliver(c, payload)
	}
}

// SendTo delivers a frame to a single session (catch-up on join).
func (h *Hub) SendTo(c *Client, payload []byte) {
	h.deliver(c, payload)
}

func (h *Hub) deliver(c *Client, payload []byte) {
	select {
	case c.Send <- payload:
	default:
		h.logger.Warn("Hub", "Session send buffer full, dropping frame", map[string]interface{}{"session_id": c.Id})
	}
}

func (h *Hub) detach(c *Client, key RoomKey) {
	if room, ok := h.rooms[key]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, key)
		}
	}
	if keys, ok := h.members[c]; ok {
		delete(keys, key)
	}
}
