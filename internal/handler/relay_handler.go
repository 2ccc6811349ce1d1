package handler

import (
	"whisperlink-be/internal/pkg/logger"
	"whisperlink-be/internal/service"
	internalWS "whisperlink-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// RelayHandler upgrades HTTP requests into relay sessions. Sessions carry no
// identity: role is a per-event flag, and creator proof (when offered) is the
// opaque token checked on join-link.
type RelayHandler struct {
	hub     *internalWS.Hub
	gateway service.IRelayService
	logger  logger.ILogger
}

func NewRelayHandler(hub *internalWS.Hub, gateway service.IRelayService, log logger.ILogger) *RelayHandler {
	return &RelayHandler{
		hub:     hub,
		gateway: gateway,
		logger:  log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *RelayHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("RelayHandler", "Starting relay session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
			internalWS.ServeWs(h.hub, h.gateway, conn)
			h.logger.Info("RelayHandler", "Relay session ended", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the relay websocket route.
func (h *RelayHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
