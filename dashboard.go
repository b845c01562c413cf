package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getDashboardStats returns today's nutrition and workout totals plus the
// number of active goals.
// GET /api/dashboard/stats.
func (h *Handler) getDashboardStats(c *gin.Context) {
	stats, err := buildDashboard(c, h.store, userID(c), h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
