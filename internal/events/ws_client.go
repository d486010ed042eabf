package events

import (
	"complaintdesk/backend/internal/models"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

// WebSocketClient implements Client over a gorilla websocket connection.
// The browser never sends anything meaningful; reads only keep the
// connection alive and notice when it closes.
type WebSocketClient struct {
	ID       string
	Conn     *websocket.Conn
	Hub      *Hub
	Send     chan Event
	Identity func() *models.User

	log       zerolog.Logger
	closeOnce sync.Once
}

func NewWebSocketClient(id string, conn *websocket.Conn, hub *Hub, identity func() *models.User, log zerolog.Logger) *WebSocketClient {
	return &WebSocketClient{
		ID:       id,
		Conn:     conn,
		Hub:      hub,
		Send:     make(chan Event, sendBufferSize),
		Identity: identity,
		log:      log,
	}
}

func (c *WebSocketClient) GetClientID() string          { return c.ID }
func (c *WebSocketClient) GetSendChannel() chan<- Event { return c.Send }

func (c *WebSocketClient) GetUser() *models.User {
	if c.Identity == nil {
		return nil
	}
	return c.Identity()
}

// Run starts the pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes Send, which stops writePump.
func (c *WebSocketClient) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Str("client_id", c.ID).Msg("websocket read failed")
			}
			return
		}
	}
}

func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				c.log.Error().Err(err).Str("client_id", c.ID).Msg("failed to encode event")
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
