package websocket

import (
	"encoding/json"
	"time"

	"whisperlink-be/internal/dto"
	"whisperlink-be/internal/pkg/serverutils"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Large enough for a max-length message plus envelope overhead.
	maxFrameSize = 8192
)

// EventHandler receives the session's inbound events. The gateway service
// implements it; the split keeps transport plumbing out of the relay logic.
type EventHandler interface {
	HandleJoinConversation(c *Client, p dto.JoinConversationPayload)
	HandleJoinLink(c *Client, p dto.JoinLinkPayload)
	HandleSendMessage(c *Client, p dto.SendMessagePayload)
	HandleTyping(c *Client, p dto.TypingPayload)
	HandleStopTyping(c *Client, p dto.StopTypingPayload)
	HandleDisconnect(c *Client)
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	// Id identifies this session in logs; it is not an identity.
	Id uuid.UUID

	// Buffered channel of outbound frames.
	Send chan []byte

	hub     *Hub
	conn    *websocket.Conn
	handler EventHandler
}

// NewClient builds a session handle. Tests pass a nil conn and drain Send
// directly instead of starting the pumps.
func NewClient(hub *Hub, conn *websocket.Conn, handler EventHandler) *Client {
	return &Client{
		Id:      uuid.New(),
		Send:    make(chan []byte, 256),
		hub:     hub,
		conn:    conn,
		handler: handler,
	}
}

// readPump pumps frames from the websocket connection to the gateway.
func (c *Client) readPump() {
	defer func() {
		c.handler.HandleDisconnect(c)
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		c.dispatch(raw)
	}
}

// dispatch decodes one inbound frame and routes it by type. Malformed or
// unknown frames are answered with an error event, never silently dropped.
func (c *Client) dispatch(raw []byte) {
	var env dto.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.sendError("malformed event")
		return
	}

	switch env.Type {
	case dto.EventJoinConversation:
		var p dto.JoinConversationPayload
		if !c.decode(env.Data, &p, "invalid join-conversation payload") {
			return
		}
		c.handler.HandleJoinConversation(c, p)

	case dto.EventJoinLink:
		var p dto.JoinLinkPayload
		if !c.decode(env.Data, &p, "invalid join-link payload") {
			return
		}
		c.handler.HandleJoinLink(c, p)

	case dto.EventSendMessage:
		var p dto.SendMessagePayload
		if !c.decode(env.Data, &p, "invalid send-message payload") {
			return
		}
		c.handler.HandleSendMessage(c, p)

	case dto.EventTyping:
		var p dto.TypingPayload
		if !c.decode(env.Data, &p, "invalid typing payload") {
			return
		}
		c.handler.HandleTyping(c, p)

	case dto.EventStopTyping:
		var p dto.StopTypingPayload
		if !c.decode(env.Data, &p, "invalid stop-typing payload") {
			return
		}
		c.handler.HandleStopTyping(c, p)

	default:
		c.sendError("unknown event type")
	}
}

// decode unmarshals a payload and runs its validate tags.
func (c *Client) decode(data json.RawMessage, p any, errMessage string) bool {
	if err := json.Unmarshal(data, p); err != nil {
		c.sendError(errMessage)
		return false
	}
	if err := serverutils.ValidateRequest(p); err != nil {
		c.sendError(errMessage)
		return false
	}
	return true
}

func (c *Client) sendError(message string) {
	if payload, err := dto.NewEvent(dto.EventError, dto.ErrorPayload{Message: message}); err == nil {
		c.hub.SendTo(c, payload)
	}
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
