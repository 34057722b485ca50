// Package hub fans normalizer state out to WebSocket clients and feeds their
// touch, axis and action commands back into the host.
package hub

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Hub manages WebSocket clients and broadcasts messages.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Register adds a new client to the hub. It is a no-op once Run returned.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.close()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every client. Clients whose buffer is full are
// disconnected.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.enqueue(msg) {
			go h.Unregister(client)
		}
	}
}

// Run starts the hub's main loop until ctx is cancelled, then closes every
// client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Info("Client connected", zap.String("client", client.id), zap.Int("total", n))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Info("Client disconnected", zap.String("client", client.id), zap.Int("total", n))
		}
	}
}
