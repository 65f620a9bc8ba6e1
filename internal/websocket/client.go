package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"vaulta-banking-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	turnTimeout    = 15 * time.Second
)

// TurnHandler runs one conversation turn.
type TurnHandler interface {
	HandleTurn(ctx context.Context, req *dto.TurnRequest) (*dto.TurnResponse, error)
}

// Client is one chat socket bound to a conversation session.
type Client struct {
	Hub       *Hub
	Conn      *websocket.Conn
	SessionID string
	Send      chan []byte

	turns TurnHandler
}

type inbound struct {
	Text string `json:"text"`
}

type outbound struct {
	Type string            `json:"type"`
	Data *dto.TurnResponse `json:"data,omitempty"`
}

// parseInbound accepts either {"text": "..."} or a bare text frame.
func parseInbound(raw []byte) string {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "{") {
		var in inbound
		if err := json.Unmarshal(raw, &in); err == nil {
			return in.Text
		}
	}
	return trimmed
}

// readPump turns each inbound frame into a conversation turn. Turns on one
// socket run in order.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("ChatSocket", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err,
				})
			}
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		res, err := c.turns.HandleTurn(ctx, &dto.TurnRequest{
			SessionID: c.SessionID,
			Channel:   "web_chat",
			Text:      parseInbound(raw),
		})
		cancel()
		if err != nil {
			c.Hub.logger.Error("ChatSocket", "Turn failed", map[string]interface{}{
				"session_id": c.SessionID,
				"error":      err,
			})
			continue
		}

		data, _ := json.Marshal(outbound{Type: "reply", Data: res})
		select {
		case c.Send <- data:
		default:
			c.Hub.logger.Warn("ChatSocket", "Send buffer full, dropping reply", map[string]interface{}{"session_id": c.SessionID})
		}
		if res.EndSession {
			// Queued frames still drain before the writer sees the close.
			return
		}
	}
}

// writePump pumps queued frames to the socket and keeps it alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
