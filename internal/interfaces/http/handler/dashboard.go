package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nizy/tailor/internal/application/trade"
)

// DashboardHandler serves the home screen aggregates
type DashboardHandler struct {
	BaseHandler
	dashboardService *trade.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *trade.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary returns counts, pending payments and the most recent orders
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
