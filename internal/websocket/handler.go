package websocket

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler upgrades /ws/chat requests. The session is taken from the
// session_id query parameter, or generated when absent.
func ChatHandler(hub *Hub, turns TurnHandler) fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		sessionID, _ := conn.Locals("session_id").(string)
		ServeChat(hub, conn, sessionID, turns)
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		sessionID := c.Query("session_id")
		if sessionID == "" || len(sessionID) > 128 {
			sessionID = "web-" + uuid.NewString()
		}
		c.Locals("session_id", sessionID)
		return upgrade(c)
	}
}

// ServeChat registers the socket and runs its pumps until it closes.
func ServeChat(hub *Hub, conn *websocket.Conn, sessionID string, turns TurnHandler) {
	client := &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 64),
		turns:     turns,
	}
	hub.register <- client

	go client.writePump()
	client.readPump()
}
