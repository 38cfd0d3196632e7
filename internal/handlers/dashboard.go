package handlers

import (
	"github.com/Adeel3330/agile-next-sub002/internal/services"
	"github.com/Adeel3330/agile-next-sub002/pkg/response"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(dashboardService *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns dashboard statistics
// GET /api/admin/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Item(c, "stats", stats)
}
