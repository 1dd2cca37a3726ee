package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 4 << 20 // scene.load carries whole scene files
	sendBuffer = 256
)

// Client is one websocket connection driving one Session.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	session  *Session
	log      *slog.Logger
	UserID   string
	ClientID string
}

func NewClient(conn *websocket.Conn, sess *Session, userID, clientID string) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		session:  sess,
		log:      sess.log.With("client", clientID),
		UserID:   userID,
		ClientID: clientID,
	}
}

func (c *Client) Session() *Session { return c.session }

// ReadPump handles messages until the connection fails or ctx ends. It is
// the only goroutine that touches the session.
func (c *Client) ReadPump(ctx context.Context) {
	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				c.log.Debug("read error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("invalid message", "error", err)
			c.Send(newMessage(TypeError, ErrorPayload{Message: "invalid message: " + err.Error()}))
			continue
		}

		for _, out := range c.session.Handle(ctx, &msg) {
			c.Send(out)
		}
	}
}

// WritePump drains the send buffer until it is closed or ctx ends, pinging
// the peer in between.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// Send queues msg, dropping it when the buffer is full.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal message", "error", err, "type", msg.Type)
		return
	}

	select {
	case c.send <- data:
	default:
		c.log.Warn("client send buffer full, dropping message", "type", msg.Type)
	}
}
