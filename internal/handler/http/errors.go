package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/abhishek9621yadav/chatroom-app/internal/service"
)

// HandleServiceError maps business errors to HTTP statuses and stable
// reason codes. Anything unmapped is logged and hidden behind a 500.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		ErrorResponse(c, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, "unauthorized", err.Error())
	case errors.Is(err, service.ErrInvalidPassword):
		ErrorResponse(c, http.StatusUnauthorized, "invalid_room_password", err.Error())
	case errors.Is(err, service.ErrNotRoomMember):
		ErrorResponse(c, http.StatusForbidden, "not_room_member", err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		ErrorResponse(c, http.StatusNotFound, "user_not_found", err.Error())
	case errors.Is(err, service.ErrRoomNotFound):
		ErrorResponse(c, http.StatusNotFound, "room_not_found", err.Error())
	case errors.Is(err, service.ErrRegistrationFailed):
		ErrorResponse(c, http.StatusConflict, "registration_failed", err.Error())
	case errors.Is(err, service.ErrRoomExists):
		ErrorResponse(c, http.StatusConflict, "room_exists", err.Error())
	case errors.Is(err, service.ErrAlreadyMember):
		ErrorResponse(c, http.StatusConflict, "already_member", err.Error())
	case errors.Is(err, service.ErrRoomFull):
		ErrorResponse(c, http.StatusConflict, "room_full", err.Error())
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
