package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/middleware"
	"github.com/abhishek9621yadav/chatroom-app/internal/repository"
	"github.com/abhishek9621yadav/chatroom-app/internal/service"
)

// RoomHandler serves the room catalog endpoints.
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler creates a RoomHandler.
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoomRequest is the POST /api/rooms body.
type CreateRoomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	IsPrivate   bool   `json:"isPrivate"`
	Password    string `json:"password"`
	MaxMembers  int    `json:"maxMembers"`
}

// Create handles POST /api/rooms.
func (h *RoomHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.CreateRoom: invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "validation_failed", "name and description are required")
		return
	}

	room, err := h.roomService.CreateRoom(c.Request.Context(), userID, service.CreateRoomInput{
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
		Password:    req.Password,
		MaxMembers:  req.MaxMembers,
	})
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, room)
}

// List handles GET /api/rooms. Supports name (case-insensitive
// substring), isPrivate, skip and limit query parameters.
func (h *RoomHandler) List(c *gin.Context) {
	filter, page := listParams(c)

	rooms, err := h.roomService.ListRooms(c.Request.Context(), filter, page)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, rooms)
}

// ListJoined handles GET /api/rooms/joined: the caller's rooms with
// last-message and unread-count summaries.
func (h *RoomHandler) ListJoined(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	filter, page := listParams(c)

	summaries, err := h.roomService.ListRoomsForMember(c.Request.Context(), userID, filter, page)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, summaries)
}

// JoinRoomRequest is the POST /api/rooms/:id/join body. The password
// is only read for private rooms.
type JoinRoomRequest struct {
	Password string `json:"password"`
}

// Join handles POST /api/rooms/:id/join.
func (h *RoomHandler) Join(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		ErrorResponse(c, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}
	roomID, ok := pathRoomID(c)
	if !ok {
		return
	}

	var req JoinRoomRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, http.StatusBadRequest, "validation_failed", "malformed request body")
			return
		}
	}

	room, err := h.roomService.JoinRoom(c.Request.Context(), userID, roomID, req.Password)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, room)
}

func listParams(c *gin.Context) (repository.RoomFilter, repository.Page) {
	filter := repository.RoomFilter{Name: c.Query("name")}
	if v := c.Query("isPrivate"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			filter.IsPrivate = &b
		}
	}
	page := repository.Page{}
	if v, err := strconv.Atoi(c.DefaultQuery("skip", "0")); err == nil && v > 0 {
		page.Skip = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		page.Limit = v
	}
	return filter, page
}

// pathRoomID parses the :id path parameter, writing the error response
// itself when it is not a positive integer.
func pathRoomID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		ErrorResponse(c, http.StatusBadRequest, "validation_failed", "invalid room id")
		return 0, false
	}
	return uint(id), true
}
