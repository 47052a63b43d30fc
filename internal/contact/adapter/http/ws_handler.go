package http

import (
	"time"

	"portfolio-backend/internal/shared/contextkeys"
	"portfolio-backend/internal/shared/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

// WebSocketHandler streams new submissions to authenticated admins.
type WebSocketHandler struct {
	hub *Hub
	log logger.Logger
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *Hub, log logger.Logger) *WebSocketHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &WebSocketHandler{hub: hub, log: log.WithComponent("ws")}
}

// RegisterRoutes registers GET /ws/contacts behind protect.
func (h *WebSocketHandler) RegisterRoutes(router fiber.Router, protect fiber.Handler) {
	wsGroup := router.Group("/ws")

	wsGroup.Use("/contacts", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	wsGroup.Get("/contacts", protect, websocket.New(h.handleConnection))
}

func (h *WebSocketHandler) handleConnection(conn *websocket.Conn) {
	subscriberID, messages := h.hub.Subscribe()
	defer h.hub.Unsubscribe(subscriberID)

	admin, _ := conn.Locals(contextkeys.AdminKey.String()).(string)
	log := h.log.WithFields(map[string]interface{}{
		"subscriber_id": subscriberID,
		"admin":         admin,
	})
	log.Info("New WebSocket connection established")
	defer log.Info("WebSocket connection closing")

	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Reads only detect disconnects; client messages are ignored.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warnf("WebSocket read error: %v", err)
				}
				return
			}
		}
	}()

	if err := h.write(conn, WebSocketMessage{
		Type: "connected",
		Data: map[string]interface{}{"subscriber_id": subscriberID},
	}); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Warnf("WebSocket write error: %v", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msg WebSocketMessage) error {
	conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}
