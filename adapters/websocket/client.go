package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ArjunDas2003/ai-chatbot/utils/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 * 1024
)

// frame is one outbound websocket message: JSON turn events go out as text,
// synthesized speech as binary.
type frame struct {
	messageType int
	data        []byte
}

// Client is one authenticated websocket connection belonging to a user.
type Client struct {
	conn   *websocket.Conn
	userID int
	send   chan frame
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	closed bool
}

// NewClient creates a new websocket client for the given user.
func NewClient(conn *websocket.Conn, userID int, requestID string) *Client {
	ctx := context.WithValue(context.Background(), "user_id", userID)
	ctx = context.WithValue(ctx, "request_id", requestID)
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		conn:   conn,
		userID: userID,
		send:   make(chan frame, 64),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) Run() {
	c.conn.SetCloseHandler(func(code int, text string) error {
		log.WithCtx(c.ctx).Debug("websocket closed", zap.Int("code", code), zap.String("text", text))
		c.Close()
		return nil
	})
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.readPump()
	go c.writePump()
}

// Close gracefully closes the client connection
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.conn.Close()
	close(c.send)
}

// IsClosed returns true if the client connection is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Context returns the client's context
func (c *Client) Context() context.Context {
	return c.ctx
}

// readPump drains the connection; inbound frames carry nothing the server
// acts on, but reading keeps control messages flowing.
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.WithCtx(c.ctx).Error("websocket read", zap.Error(err))
			}
			return
		}
	}
}

// writePump serializes all writes to the connection and keeps it alive with
// periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(f.messageType, f.data); err != nil {
				log.WithCtx(c.ctx).Error("websocket write", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(writeWait)); err != nil {
				log.WithCtx(c.ctx).Debug("ping failed, closing", zap.Error(err))
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// SendText queues a JSON text frame for the client.
func (c *Client) SendText(message []byte) error {
	return c.enqueue(frame{messageType: websocket.TextMessage, data: message})
}

// SendBinary queues a binary frame (synthesized audio) for the client.
func (c *Client) SendBinary(data []byte) error {
	return c.enqueue(frame{messageType: websocket.BinaryMessage, data: data})
}

func (c *Client) enqueue(f frame) error {
	if c.IsClosed() {
		return websocket.ErrCloseSent
	}

	select {
	case c.send <- f:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		// Channel is full, the client is not keeping up.
		c.Close()
		return websocket.ErrCloseSent
	}
}
