package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 256
	maxMessageSz = 4096
)

// Client represents a connected WebSocket client.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	log  *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewClient creates a new Client attached to the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	id := uuid.NewString()
	return &Client{
		id:   id,
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		log:  hub.log.With(zap.String("client", id)),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues msg for this client only. It reports false when the send
// buffer is full.
func (c *Client) Send(msg *WSMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("Error marshaling message", zap.Error(err))
		return false
	}
	return c.enqueue(data)
}

func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// close ends WritePump. Safe to call more than once.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// WritePump sends messages from the send channel to the WebSocket connection.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.log.Debug("Write failed", zap.Error(err))
			break
		}
	}
}

// ReadPump reads commands from the WebSocket until it closes and passes them
// to handler. Malformed or failing commands are logged and skipped.
func (c *Client) ReadPump(handler CommandHandler) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSz)
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Read failed", zap.Error(err))
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.log.Warn("Error parsing client message", zap.Error(err))
			continue
		}

		reply, err := handler.Handle(&msg)
		if err != nil {
			c.log.Warn("Command failed", zap.String("type", msg.Type), zap.Error(err))
			c.Send(NewErrorMessage(err))
			continue
		}
		if reply != nil {
			c.Send(reply)
		}
	}
}
