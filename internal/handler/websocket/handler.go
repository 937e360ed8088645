// Package websocket upgrades authenticated HTTP requests into hub
// clients.
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/hub"
	"github.com/abhishek9621yadav/chatroom-app/internal/middleware"
)

// Handler upgrades GET /ws requests. Authentication happens before the
// upgrade (the Auth middleware reads the token query parameter for
// clients that cannot set headers); a request without a valid identity
// never becomes a connection.
type Handler struct {
	upgrader websocket.Upgrader
	hub      *hub.Hub
}

// NewHandler creates a WebSocket Handler.
func NewHandler(h *hub.Hub) *Handler {
	if h == nil {
		panic("Hub cannot be nil for WebSocket Handler")
	}
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: restrict origins once the frontend domain is fixed
				return true
			},
		},
		hub: h,
	}
}

// HandleConnection handles GET /ws. The new client starts with no room
// subscriptions; it sends joinroom events to subscribe.
func (h *Handler) HandleConnection(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		logrus.Warn("WS Handler: user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "unauthorized",
			"message": "Authentication required",
		})
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("WS Handler: failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: connection upgraded to WebSocket")

	client := hub.NewClient(h.hub, conn, userID)
	h.hub.Register(client)
	client.Run()
}
