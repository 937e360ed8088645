package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/middleware"
	"github.com/abhishek9621yadav/chatroom-app/internal/service"
)

// MessageHandler serves the REST message endpoints. Sends go through
// the same service path as WebSocket sends, so a REST-sent message is
// broadcast to live subscribers too.
type MessageHandler struct {
	chatService *service.ChatService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(chatService *service.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// SendMessageRequest is the POST /api/rooms/:id/messages body.
type SendMessageRequest struct {
	Type    string `json:"type"`
	Content string `json:"content" binding:"required"`
}

// Send handles POST /api/rooms/:id/messages.
func (h *MessageHandler) Send(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	roomID, ok := pathRoomID(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.SendMessage: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "validation_failed", "content is required")
		return
	}

	msg, err := h.chatService.SendMessage(c.Request.Context(), userID, service.SendMessageInput{
		RoomID:  roomID,
		Type:    req.Type,
		Content: req.Content,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusCreated, msg)
}

// History handles GET /api/rooms/:id/messages. sinceId is the
// reconnect watermark; limit caps the page size.
func (h *MessageHandler) History(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	roomID, ok := pathRoomID(c)
	if !ok {
		return
	}

	var sinceID uint
	if v, err := strconv.ParseUint(c.DefaultQuery("sinceId", "0"), 10, 32); err == nil {
		sinceID = uint(v)
	}
	limit := 50
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil && v > 0 {
		limit = v
	}

	msgs, err := h.chatService.History(c.Request.Context(), userID, roomID, sinceID, limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, msgs)
}

// MarkSeen handles POST /api/rooms/:id/messages/seen.
func (h *MessageHandler) MarkSeen(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	roomID, ok := pathRoomID(c)
	if !ok {
		return
	}

	if err := h.chatService.MarkSeen(c.Request.Context(), userID, roomID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "messages marked as seen"})
}

// UnreadCount handles GET /api/rooms/:id/messages/unread.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	roomID, ok := pathRoomID(c)
	if !ok {
		return
	}

	count, err := h.chatService.UnreadCount(c.Request.Context(), userID, roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"unreadCount": count})
}
