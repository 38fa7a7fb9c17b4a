package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"clinical-scribe-be/internal/pkg/logger"
)

// Hub fans pipeline events out to the browser connections of each scribe
// session (multi-tab: one session may hold several connections).
type Hub struct {
	// Registered clients map: SessionID -> List of Clients
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out (optional, nil-safe)
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionID]) == 0 {
					delete(h.clients, client.SessionID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": client.SessionID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send pushes an already-serialized event to every connection of one session.
// Implements service.EventDelivery.
//
// Sends happen under the read lock and the channel is closed only by Run
// under the write lock, so a send can never hit a closed channel. Stalled
// clients are signaled for removal after the lock is released; signaling
// while holding it would deadlock against Run.
func (h *Hub) Send(sessionID string, payload []byte) {
	var stalled []*Client

	h.mu.RLock()
	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"session_id": sessionID})
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		h.unregister <- client
	}

	// Publish to Redis for other instances
	if h.rdb != nil {
		wire, _ := json.Marshal(map[string]interface{}{
			"target_session_id": sessionID,
			"message":           json.RawMessage(payload),
		})
		h.rdb.Publish(context.Background(), "scribe_events", wire)
	}
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to "scribe_events". When a message arrives,
	// deliver it locally if the target session has connections here.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "scribe_events")
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var payload struct {
			TargetSessionID string          `json:"target_session_id"`
			Message         json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		var stalled []*Client

		h.mu.RLock()
		for _, client := range h.clients[payload.TargetSessionID] {
			select {
			case client.Send <- payload.Message:
			default:
				stalled = append(stalled, client)
			}
		}
		h.mu.RUnlock()

		for _, client := range stalled {
			h.unregister <- client
		}
	}
}
