// Package http contains the Gin HTTP handlers and the response
// envelope shared by all of them.
package http

import "github.com/gin-gonic/gin"

// ErrorResponse writes the failure envelope. code is the stable
// machine-readable reason; message is for humans and may change.
func ErrorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   code,
		"message": message,
	})
}

// SuccessResponse writes the success envelope.
func SuccessResponse(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}
