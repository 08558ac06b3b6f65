// websocket/hub.go
package websocket

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeReservationCreated   MessageType = "RESERVATION_CREATED"
	MessageTypeReservationCancelled MessageType = "RESERVATION_CANCELLED"
	MessageTypeReservationCompleted MessageType = "RESERVATION_COMPLETED"
	MessageTypeReservationExpired   MessageType = "RESERVATION_EXPIRED"
	MessageTypeAvailabilityChanged  MessageType = "AVAILABILITY_CHANGED"
	MessageTypeSubscribe            MessageType = "SUBSCRIBE_PRODUCT"
	MessageTypeUnsubscribe          MessageType = "UNSUBSCRIBE_PRODUCT"
	MessageTypeError                MessageType = "ERROR"
)

// WebSocketMessage is the envelope for every frame. ProductID scopes a
// message to the clients watching that product.
type WebSocketMessage struct {
	Type      MessageType `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
	ProductID string      `json:"productId,omitempty"`
}

type Client struct {
	ID       uuid.UUID
	Email    string
	Conn     *websocket.Conn
	Hub      *Hub
	Send     chan WebSocketMessage
	Products map[string]bool
	mu       sync.RWMutex
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan WebSocketMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan WebSocketMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.broadcastToAll(message)
		}
	}
}

// Broadcast sends a message to all connected clients
func (h *Hub) Broadcast(message WebSocketMessage) {
	h.broadcast <- message
}

// BroadcastToProduct sends a message to clients watching a specific product
func (h *Hub) BroadcastToProduct(productID string, message WebSocketMessage, excludeEmail ...string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	excludeMap := make(map[string]bool)
	for _, email := range excludeEmail {
		excludeMap[email] = true
	}

	for client := range h.clients {
		if excludeMap[client.Email] {
			continue
		}

		client.mu.RLock()
		_, isWatching := client.Products[productID]
		client.mu.RUnlock()

		if isWatching {
			select {
			case client.Send <- message:
			default:
				close(client.Send)
				delete(h.clients, client)
			}
		}
	}
}

// broadcastToAll sends a message to all connected clients
func (h *Hub) broadcastToAll(message WebSocketMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.Send <- message:
		default:
			close(client.Send)
			delete(h.clients, client)
		}
	}
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetProductWatchers returns all clients watching a product
func (h *Hub) GetProductWatchers(productID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var watchers []*Client
	for client := range h.clients {
		client.mu.RLock()
		_, isWatching := client.Products[productID]
		client.mu.RUnlock()

		if isWatching {
			watchers = append(watchers, client)
		}
	}
	return watchers
}

// WatchProduct adds a product to the client's watch list
func (c *Client) WatchProduct(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Products == nil {
		c.Products = make(map[string]bool)
	}
	c.Products[productID] = true
}

// UnwatchProduct removes a product from the client's watch list
func (c *Client) UnwatchProduct(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Products, productID)
}

// IsWatchingProduct checks if the client is watching a product
func (c *Client) IsWatchingProduct(productID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, exists := c.Products[productID]
	return exists
}
