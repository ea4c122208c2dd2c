package socket

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrSendBufferFull is returned when a client's outbound queue is full;
// the push is dropped rather than blocking the caller.
var ErrSendBufferFull = errors.New("send buffer full")

// outbound is the wire envelope for server-pushed events.
type outbound struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// client owns the write side of one websocket connection. All writes go
// through the send channel and a single writePump goroutine, which is
// the only place allowed to call the connection's write methods.
type client struct {
	conn *websocket.Conn
	send chan outbound
	done chan struct{}
	once sync.Once

	writeWait  time.Duration
	pingPeriod time.Duration
}

func newClient(conn *websocket.Conn, writeWait, pingPeriod time.Duration) *client {
	return &client{
		conn:       conn,
		send:       make(chan outbound, 64),
		done:       make(chan struct{}),
		writeWait:  writeWait,
		pingPeriod: pingPeriod,
	}
}

// Push queues an event for delivery. Safe to call from any goroutine,
// including after Close.
func (c *client) Push(event string, payload interface{}) error {
	select {
	case <-c.done:
		return ErrNotConnected
	default:
	}

	select {
	case c.send <- outbound{Event: event, Data: payload}:
		return nil
	case <-c.done:
		return ErrNotConnected
	default:
		return ErrSendBufferFull
	}
}

func (c *client) Close() error {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
	return nil
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return
		}
	}
}
