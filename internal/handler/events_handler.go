package handler

import (
	"clinical-scribe-be/internal/pkg/logger"
	"clinical-scribe-be/internal/repository/memory"
	internalWS "clinical-scribe-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// EventsHandler upgrades browser connections onto the hub so a session can
// watch pipeline events (note created, run failed) without polling.
type EventsHandler struct {
	sessions *memory.SessionRepository
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewEventsHandler(sessions *memory.SessionRepository, hub *internalWS.Hub, log logger.ILogger) *EventsHandler {
	return &EventsHandler{
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *EventsHandler) ServeWs(c *fiber.Ctx) error {
	// 1. The session id rides in the path, matching the REST surface.
	sessionID := c.Params("session_id")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing session id"})
	}

	// 2. Only sessions that were actually created may subscribe.
	if _, found := h.sessions.Get(sessionID); !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown session"})
	}

	// Upgrade via Fiber WebSocket Middleware
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("EventsHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID)
			h.logger.Info("EventsHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the event stream routes.
func (h *EventsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/:session_id", h.ServeWs)
}
