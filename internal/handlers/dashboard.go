package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/services"
)

// DashboardHandler coordinates the admin dashboard and analytics handlers.
type DashboardHandler struct {
	dashboardService *services.DashboardService
	overdueService   *services.OverdueService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *services.DashboardService, overdueService *services.OverdueService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		overdueService:   overdueService,
	}
}

// Dashboard returns the headline counters, recent tasks and activity feed.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboardService.Stats()
	if err != nil {
		apierrors.Respond(c, "Failed to load dashboard", err)
		return
	}
	recent, err := h.dashboardService.RecentTasks()
	if err != nil {
		apierrors.Respond(c, "Failed to load dashboard", err)
		return
	}
	activity, err := h.dashboardService.RecentActivity()
	if err != nil {
		apierrors.Respond(c, "Failed to load dashboard", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"stats":           stats,
			"recent_tasks":    recent,
			"recent_activity": activity,
		},
	})
}

// Analytics returns the task analytics payload.
func (h *DashboardHandler) Analytics(c *gin.Context) {
	analytics, err := h.dashboardService.Analytics()
	if err != nil {
		apierrors.Respond(c, "Failed to load analytics", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    analytics,
	})
}

// RunOverdueSweep triggers the overdue sweep on demand.
func (h *DashboardHandler) RunOverdueSweep(c *gin.Context) {
	processed, notified, err := h.overdueService.Sweep()
	if err != nil {
		apierrors.Respond(c, "Overdue sweep failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Overdue sweep completed",
		"data": gin.H{
			"processed": processed,
			"notified":  notified,
		},
	})
}
