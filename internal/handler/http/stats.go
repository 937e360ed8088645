package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhishek9621yadav/chatroom-app/internal/service"
)

// StatsHandler serves the operator stats endpoint.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Snapshot handles GET /api/stats.
func (h *StatsHandler) Snapshot(c *gin.Context) {
	stats, err := h.statsService.Snapshot(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, stats)
}
