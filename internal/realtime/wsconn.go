package realtime

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/casuskim/casus/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// WSConfig holds the per-connection limits of a WSChannel
type WSConfig struct {
	// PingInterval is the time between keepalive pings; a peer that misses two is dropped
	PingInterval time.Duration
	// MaxMessageBytes bounds a single inbound frame
	MaxMessageBytes int64
}

// DefaultWSConfig returns the default connection limits
func DefaultWSConfig() WSConfig {
	return WSConfig{
		PingInterval:    30 * time.Second,
		MaxMessageBytes: 64 * 1024,
	}
}

// WSChannel is a Channel backed by a websocket connection.
// Outbound messages are queued and written by WritePump; inbound frames are read by ReadPump.
type WSChannel struct {
	id     string
	conn   *websocket.Conn
	cfg    WSConfig
	logger *slog.Logger

	mu     sync.RWMutex
	send   chan []byte
	closed bool
}

var _ Channel = (*WSChannel)(nil)

// NewWSChannel wraps an upgraded websocket connection
func NewWSChannel(id string, conn *websocket.Conn, cfg WSConfig, logger *slog.Logger) *WSChannel {
	return &WSChannel{
		id:     id,
		conn:   conn,
		cfg:    cfg,
		logger: logger.With(slog.String("channel", id)),
		send:   make(chan []byte, sendBufferSize),
	}
}

func (c *WSChannel) ID() string {
	return c.id
}

// Send queues a message without blocking. A full queue drops the message.
func (c *WSChannel) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return model.ErrChannelClosed
	}
	select {
	case c.send <- data:
		return nil
	default:
		return model.ErrSendBufferFull
	}
}

func (c *WSChannel) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

// Close stops accepting messages; WritePump drains the queue, sends a close frame and closes the connection
func (c *WSChannel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// ReadPump reads frames until the connection fails, passing each text frame to handle.
// It returns when the peer goes away or misses its pongs.
func (c *WSChannel) ReadPump(handle func(data []byte)) {
	pongWait := 2 * c.cfg.PingInterval

	c.conn.SetReadLimit(c.cfg.MaxMessageBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read failed", slog.Any("error", err))
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		handle(data)
	}
}

// WritePump writes queued messages and keepalive pings until the channel is closed or a write fails
func (c *WSChannel) WritePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("websocket write failed", slog.Any("error", err))
				c.Close()
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					c.logger.Debug("websocket ping failed", slog.Any("error", err))
				}
				c.Close()
				return
			}
		}
	}
}
