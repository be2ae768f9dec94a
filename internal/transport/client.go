// apps/go-server/internal/transport/client.go
//
// One websocket connection.
// Responsibilities:
//   - readLoop: hand every inbound frame to the Handler; report the close.
//   - writeLoop: drain the outbound queue as JSON text frames, keep the
//     connection alive with pings.
//
// Notes:
//   - Send never blocks. A full queue drops the message with a warning.
//   - Close only signals writeLoop, which flushes what is queued, sends a
//     close frame and closes the socket. readLoop then fails and reports
//     the close to the Handler from its own goroutine.

package transport

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/abalone/apps/go-server/internal/protocol"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendQueue      = 64
)

// Handler receives a client's traffic. Calls for one client come from a
// single goroutine, in order; HandleClose is always the last.
type Handler interface {
	HandleMessage(c *Client, raw []byte)
	HandleClose(c *Client)
}

// Client implements room.Conn over a websocket.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan protocol.Message

	done      chan struct{}
	closeOnce sync.Once
}

// NewClient wraps an upgraded connection. Call Run to start it.
func NewClient(conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan protocol.Message, sendQueue),
		done: make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) RemoteAddr() string { return c.conn.RemoteAddr().String() }

// Send queues m for delivery.
func (c *Client) Send(m protocol.Message) {
	select {
	case <-c.done:
		return
	default:
	}
	select {
	case c.send <- m:
	default:
		log.Warn().Str("conn", c.id).Str("type", string(m.Type)).Msg("send queue full, dropping message")
	}
}

// Close asks the connection to shut down after flushing. Safe to call
// more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Run serves the connection until it closes.
func (c *Client) Run(h Handler) {
	go c.writeLoop()
	c.readLoop(h)
}

func (c *Client) readLoop(h Handler) {
	defer func() {
		c.Close()
		h.HandleClose(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("conn", c.id).Msg("unexpected close")
			}
			return
		}
		h.HandleMessage(c, raw)
	}
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case m := <-c.send:
			if err := c.write(m); err != nil {
				log.Debug().Err(err).Str("conn", c.id).Msg("write failed")
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.flush()
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) write(m protocol.Message) error {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(m)
}

// flush writes whatever is still queued.
func (c *Client) flush() {
	for {
		select {
		case m := <-c.send:
			if err := c.write(m); err != nil {
				return
			}
		default:
			return
		}
	}
}
