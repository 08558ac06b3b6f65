// websocket/handler.go
package websocket

import (
	"fmt"
	"time"

	"rental-marketplace-backend/config"
	"rental-marketplace-backend/token"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService defines a token validator interface
type AuthService interface {
	VerifyToken(token string) (*token.Payload, error)
}

// WsHandler manages WebSocket requests and connections
type WsHandler struct {
	hub  *Hub
	auth AuthService
}

// NewWsHandler creates a new WebSocket handler instance
func NewWsHandler(hub *Hub, auth AuthService) *WsHandler {
	return &WsHandler{
		hub:  hub,
		auth: auth,
	}
}

// HandleWebSocket handles incoming WebSocket upgrade requests
func (h *WsHandler) HandleWebSocket(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	// Token comes from the HTTPOnly cookie, never a query parameter
	tokenStr := c.Cookies("access_token")
	if tokenStr == "" {
		config.Logger.Warn("WebSocket connection attempted without access token cookie")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required - no access token cookie found",
		})
	}

	payload, err := h.auth.VerifyToken(tokenStr)
	if err != nil {
		config.Logger.Warn("Invalid access token for WebSocket",
			zap.Error(err),
		)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	// Optional initial product subscription
	productID := c.Query("product")
	if productID != "" {
		if _, err := uuid.Parse(productID); err != nil {
			config.Logger.Warn("Invalid product ID format",
				zap.String("productID", productID),
				zap.String("email", payload.Email),
			)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid product ID format",
			})
		}
	}

	config.Logger.Info("WebSocket connection authenticated",
		zap.String("email", payload.Email),
		zap.String("productID", productID),
	)

	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{
			ID:       uuid.New(),
			Email:    payload.Email,
			Conn:     conn,
			Hub:      h.hub,
			Send:     make(chan WebSocketMessage, 256),
			Products: make(map[string]bool),
		}

		if productID != "" {
			client.Products[productID] = true
		}

		h.hub.register <- client

		config.Logger.Info("WebSocket client registered",
			zap.String("clientID", client.ID.String()),
			zap.String("email", client.Email),
		)

		go client.writePump()
		client.readPump()
	})(c)
}

// readPump listens for incoming messages from the WebSocket
func (c *Client) readPump() {
	defer func() {
		config.Logger.Info("WebSocket client disconnecting",
			zap.String("clientID", c.ID.String()),
			zap.String("email", c.Email),
		)
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(64 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg WebSocketMessage
		err := c.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				config.Logger.Warn("WebSocket unexpected close",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
			}
			break
		}

		if msg.Timestamp.IsZero() {
			msg.Timestamp = time.Now()
		}

		switch msg.Type {
		case MessageTypeSubscribe:
			c.handleSubscribe(msg, true)
		case MessageTypeUnsubscribe:
			c.handleSubscribe(msg, false)
		default:
			config.Logger.Warn("Unknown WebSocket message type",
				zap.String("type", string(msg.Type)),
				zap.String("clientID", c.ID.String()),
			)
			c.sendError("Unknown message type: " + string(msg.Type))
		}
	}
}

// writePump sends queued messages and keeps the connection alive
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(message); err != nil {
				config.Logger.Debug("WebSocket write error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				config.Logger.Debug("WebSocket ping error",
					zap.String("clientID", c.ID.String()),
					zap.Error(err),
				)
				return
			}
		}
	}
}

// handleSubscribe switches a product watch on or off for this client
func (c *Client) handleSubscribe(msg WebSocketMessage, watch bool) {
	if msg.ProductID == "" {
		c.sendError("Missing productId in subscription message")
		return
	}
	if _, err := uuid.Parse(msg.ProductID); err != nil {
		c.sendError("Invalid product ID format")
		return
	}

	if watch {
		c.WatchProduct(msg.ProductID)
	} else {
		c.UnwatchProduct(msg.ProductID)
	}

	config.Logger.Debug("WebSocket product subscription updated",
		zap.String("clientID", c.ID.String()),
		zap.String("productID", msg.ProductID),
		zap.Bool("watching", watch),
	)
}

// sendError sends an error message back to the client
func (c *Client) sendError(message string) {
	errorMsg := WebSocketMessage{
		Type: MessageTypeError,
		Payload: map[string]interface{}{
			"message": message,
		},
		Timestamp: time.Now(),
	}

	c.Send <- errorMsg
}

// SendMessage sends a message to this specific client
func (c *Client) SendMessage(msg WebSocketMessage) error {
	select {
	case c.Send <- msg:
		return nil
	default:
		return fmt.Errorf("client send channel is full")
	}
}
