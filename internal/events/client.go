package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"peerprep/interview/internal/models"
)

const (
	sendBuffer = 64
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one websocket subscriber. Frames are queued and written by
// WritePump so publishers never wait on the network.
type Client struct {
	Conn *websocket.Conn

	mu     sync.Mutex
	hook   func(models.Event)
	send   chan models.Event
	closed bool
}

func NewClient(conn *websocket.Conn) *Client {
	return &Client{Conn: conn, send: make(chan models.Event, sendBuffer)}
}

// SetSendHook replaces the websocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.Event)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

// Send queues the event without blocking. It reports false when the client
// is closed or too slow to keep up.
func (c *Client) Send(event models.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	if c.hook != nil {
		c.hook(event)
		return true
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// WritePump drains the queue to the connection until Close is called or a
// write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump consumes control frames until the peer goes away. Clients never
// send commands over the socket; those go through the HTTP API.
func (c *Client) ReadPump() {
	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}
