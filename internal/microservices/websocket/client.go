package websocket

import (
	"errors"
	"time"

	"github.com/gorilla/websocket"
)

// Individual client connection handler

const ( // ping pong(2-way heartbeat) to keep connection alive
	WriteWait      = 10 * time.Second    // max time write a message to the peer
	PongWait       = 60 * time.Second    // max time to wait for pong from peer => no pong = no connection
	PingPeriod     = (PongWait * 9) / 10 // max time to send ping to peer => before pong wait expires
	MaxMessageSize = 512                 // maximum message size allowed from peer
)

var errSendBufferFull = errors.New("client send buffer full")

type Client struct {
	ID          string          // unique client ID
	UserID      string          // user ID get from auth token(JWT.claims)
	UserName    string          // user name get from auth token(JWT.claims)
	Conn        *websocket.Conn // WebSocket connection
	SendChannel chan []byte     // channel for outbound messages
	Hub         *Hub            // reference to the central Hub

	closed chan struct{}
}

// constructor new client
func NewClient(id, userID, userName string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:          id,
		UserID:      userID,
		UserName:    userName,
		Conn:        conn,
		SendChannel: make(chan []byte, 16),
		Hub:         hub,
		closed:      make(chan struct{}),
	}
}

// ReadPump drains inbound frames. The ranking feed is one-way, so reads only
// serve the pong heartbeat and connection close detection.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(PongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump pushes queued snapshots to the peer and keeps the heartbeat going.
func (c *Client) WritePump() {
	ticker := time.NewTicker(PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.SendChannel:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues a message for the client without blocking the hub.
func (c *Client) SendMessage(message []byte) error {
	select {
	case <-c.closed:
		return errors.New("client closed")
	default:
	}
	select {
	case c.SendChannel <- message:
		return nil
	default:
		return errSendBufferFull
	}
}

// Close shuts down the outbound channel, which ends WritePump.
func (c *Client) Close() error {
	select {
	case <-c.closed:
		return nil
	default:
		close(c.closed)
		close(c.SendChannel)
	}
	return nil
}
