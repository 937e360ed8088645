package http_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	httphandler "github.com/abhishek9621yadav/chatroom-app/internal/handler/http"
	"github.com/abhishek9621yadav/chatroom-app/internal/service"
)

func TestHandleServiceError_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{service.ErrValidation, http.StatusBadRequest, "validation_failed"},
		{service.ErrAuthenticationFailed, http.StatusUnauthorized, "unauthorized"},
		{service.ErrInvalidPassword, http.StatusUnauthorized, "invalid_room_password"},
		{service.ErrNotRoomMember, http.StatusForbidden, "not_room_member"},
		{service.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
		{service.ErrRoomNotFound, http.StatusNotFound, "room_not_found"},
		{service.ErrRegistrationFailed, http.StatusConflict, "registration_failed"},
		{service.ErrRoomExists, http.StatusConflict, "room_exists"},
		{service.ErrAlreadyMember, http.StatusConflict, "already_member"},
		{service.ErrRoomFull, http.StatusConflict, "room_full"},
		{errors.New("something leaked"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.wantCode, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			httphandler.HandleServiceError(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"`+tc.wantCode+`"`)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestHandleServiceError_WrappedErrors(t *testing.T) {
	// Services wrap sentinels with detail; the mapping must still hold.
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	wrapped := fmt.Errorf("%w: content must be 1-2000 characters", service.ErrValidation)
	httphandler.HandleServiceError(c, wrapped)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"validation_failed"`)
}

func TestHandleServiceError_InternalHidesDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	httphandler.HandleServiceError(c, errors.New("dsn: user:password@tcp"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "dsn", "internal error detail must not leak to clients")
}
