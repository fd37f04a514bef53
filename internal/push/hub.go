package push

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ironhall/kiosk/internal/metrics"
)

// Message is a frame destined for websocket clients. If Topic is not empty,
// only clients subscribed to that topic receive it.
type Message struct {
	Data  []byte
	Topic string
}

// Hub fans scan frames out to connected kiosk clients
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	// Channels for managing clients
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		logger:     logger.With(slog.String("component", "push")),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	h.logger.Info("push hub started")
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			clientCount := len(h.clients)
			h.mu.Unlock()
			metrics.PushClientsConnected.Inc()
			h.logger.Info("push client registered",
				slog.String("email", client.email),
				slog.Int("total_clients", clientCount))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				clientCount := len(h.clients)
				h.mu.Unlock()
				metrics.PushClientsConnected.Dec()
				duration := time.Since(client.connectedAt)
				h.logger.Info("push client unregistered",
					slog.String("email", client.email),
					slog.Duration("connection_duration", duration),
					slog.Int("total_clients", clientCount))
			} else {
				h.mu.Unlock()
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			sentCount := 0
			droppedCount := 0
			for client := range h.clients {
				if message.Topic != "" && !client.follows(message.Topic) {
					continue
				}
				select {
				case client.send <- message.Data:
					sentCount++
				default:
					droppedCount++
					h.logger.Warn("push frame dropped - client buffer full",
						slog.String("email", client.email))
				}
			}
			h.mu.RUnlock()
			metrics.PushFramesTotal.Inc()
			if droppedCount > 0 {
				h.logger.Warn("push broadcast partial failure",
					slog.Int("sent", sentCount),
					slog.Int("dropped", droppedCount))
			}

		case <-h.done:
			h.mu.Lock()
			clientCount := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			metrics.PushClientsConnected.Sub(float64(clientCount))
			h.logger.Info("push hub stopped", slog.Int("disconnected_clients", clientCount))
			return
		}
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast sends a frame to all clients
func (h *Hub) Broadcast(data []byte) {
	h.Send(data, "")
}

// Send sends a frame to the clients subscribed to a topic
func (h *Hub) Send(data []byte, topic string) {
	select {
	case h.broadcast <- Message{Data: data, Topic: topic}:
	case <-h.done:
	}
}

// Close shuts down the hub
func (h *Hub) Close() {
	close(h.done)
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
