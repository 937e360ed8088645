package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TokenVerifier validates a bearer token and returns the identity it
// was issued for. AuthService implements it; the WebSocket handshake
// uses the same implementation, so both transports agree on what a
// valid token is.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (uint, error)
}

// ContextUserKey is where Auth stores the authenticated user id.
const ContextUserKey = "user_id"

// Auth returns a Gin middleware that authenticates requests. The token
// comes from the Authorization header ("Bearer <token>") or, for
// clients that cannot set headers, the token query parameter.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	if verifier == nil {
		panic("TokenVerifier cannot be nil for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr := ExtractToken(c)
		if tokenStr == "" {
			logrus.Warn("Auth middleware: missing credentials")
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
				"message": "Authorization token is required",
			})
			c.Abort()
			return
		}

		userID, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
				"message": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ContextUserKey, userID)
		logrus.WithField("user_id", userID).Debug("Auth middleware: user authenticated")
		c.Next()
	}
}

// ExtractToken pulls the bearer token from the Authorization header,
// falling back to the token query parameter.
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}

// UserID returns the authenticated user id set by Auth, or false when
// the request never passed through it.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
