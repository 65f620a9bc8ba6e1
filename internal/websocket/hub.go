package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"vaulta-banking-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const noticeChannel = "vaulta:ws:notices"

// Hub tracks live chat connections by session ID. Notices (such as an
// operator resetting a session) reach every instance through Redis pub/sub
// when a client is configured.
type Hub struct {
	clients    map[string][]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	rdb        *redis.Client
	instanceID string
	logger     logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// Run owns client registration until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, clients := range h.clients {
				for _, c := range clients {
					close(c.Send)
				}
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Chat client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			clients := h.clients[client.SessionID]
			for i, c := range clients {
				if c == client {
					h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
					close(client.Send)
					break
				}
			}
			if len(h.clients[client.SessionID]) == 0 {
				delete(h.clients, client.SessionID)
			}
			h.mu.Unlock()
		}
	}
}

// Connections returns the number of live chat sockets on this instance.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

type notice struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Message   string `json:"message,omitempty"`
}

type clusterNotice struct {
	Origin string `json:"origin"`
	Notice notice `json:"notice"`
}

// Notify pushes a notice to every socket on sessionID, locally and on other
// instances.
func (h *Hub) Notify(sessionID, kind, message string) {
	n := notice{Type: kind, SessionID: sessionID, Message: message}
	h.deliver(n)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterNotice{Origin: h.instanceID, Notice: n})
		if err := h.rdb.Publish(context.Background(), noticeChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish notice", map[string]interface{}{"error": err})
		}
	}
}

func (h *Hub) deliver(n notice) {
	data, _ := json.Marshal(n)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[n.SessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping notice", map[string]interface{}{"session_id": n.SessionID})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, noticeChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var cn clusterNotice
		if err := json.Unmarshal([]byte(msg.Payload), &cn); err != nil {
			h.logger.Warn("Hub", "Bad cluster notice", map[string]interface{}{"error": err})
			continue
		}
		if cn.Origin == h.instanceID {
			continue
		}
		h.deliver(cn.Notice)
	}
}
