// Package notify streams moderation queue events to connected admin
// reviewers over WebSocket, replacing per-reviewer polling of the queue.
package notify

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/anonrelay/backend/internal/cache"
	"github.com/anonrelay/backend/internal/models"
)

// Hub maintains the set of connected reviewers and fans moderation events
// out to them
type Hub struct {
	// Connected reviewers keyed by admin ID
	clients map[int64]*Client

	// Outbound event frames
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Redis client for pub/sub
	redis *cache.RedisClient

	mu sync.RWMutex
}

// NewHub creates a new Hub
func NewHub(redis *cache.RedisClient) *Hub {
	return &Hub{
		clients:    make(map[int64]*Client),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		redis:      redis,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	if h.redis != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.adminID] = client
			h.mu.Unlock()
			log.Printf("Reviewer connected: %d", client.adminID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.adminID]; ok {
				delete(h.clients, client.adminID)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("Reviewer disconnected: %d", client.adminID)

		case message := <-h.broadcast:
			h.mu.Lock()
			for adminID, client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, adminID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// subscribeToRedis forwards moderation events from Redis to the reviewers
func (h *Hub) subscribeToRedis() {
	pubsub := h.redis.SubscribeEvents()
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.broadcast <- []byte(msg.Payload)
	}
}

// Broadcast queues an event for every connected reviewer
func (h *Hub) Broadcast(event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.broadcast <- data
	return nil
}

// SendToReviewer sends an event to one connected reviewer, if present
func (h *Hub) SendToReviewer(adminID int64, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	client, ok := h.clients[adminID]
	h.mu.RUnlock()

	if ok {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, skip
		}
	}

	return nil
}
