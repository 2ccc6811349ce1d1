package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs binds an upgraded connection to the hub and runs the session until
// the peer goes away.
func ServeWs(hub *Hub, handler EventHandler, conn *websocket.Conn) {
	client := NewClient(hub, conn, handler)
	hub.register <- client

	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
