package handler

import (
	"complaintdesk/backend/internal/events"
	"complaintdesk/backend/internal/models"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API is token-authenticated, so any origin may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams complaint events visible to
// whoever is signed in on the browsing context.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	sid := c.GetString(ctxSessionID)

	// Resolve through the registry on every event: the cached session may be
	// evicted and restored while the socket stays open.
	client := events.NewWebSocketClient(
		sid+"/"+uuid.NewString(),
		nil,
		h.Hub,
		func() *models.User { return h.Sessions.Get(context.Background(), sid).Active() },
		h.log,
	)

	// Register before the handshake completes so no event published after
	// the client sees the upgrade is missed. Events queue in Send until Run.
	if !h.Hub.Register(client) {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Event hub stopped"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		h.Hub.Unregister(client)
		return
	}

	client.Conn = conn
	client.Run()
}
