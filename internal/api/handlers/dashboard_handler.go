package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/services"
)

// DashboardHandler serves aggregated pipeline KPIs.
type DashboardHandler struct {
	dashboardService services.IDashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.IDashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// KPIs handles GET /dashboard/kpis.
func (h *DashboardHandler) KPIs(c *gin.Context) {
	kpis, err := h.dashboardService.GetKPIs(c.Request.Context())
	if err != nil {
		config.Logger().WithError(err).Error("computing dashboard KPIs failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute KPIs"})
		return
	}
	c.JSON(http.StatusOK, kpis)
}
