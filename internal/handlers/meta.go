package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
)

// MetaHandler serves the small utility endpoints: enum listings, system
// stats and the health probe.
type MetaHandler struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

// NewMetaHandler creates a new MetaHandler.
func NewMetaHandler(userRepo repository.UserRepository, taskRepo repository.TaskRepository) *MetaHandler {
	return &MetaHandler{
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// TaskStatuses lists the valid task statuses and priorities.
func (h *MetaHandler) TaskStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"statuses":   models.TaskStatuses(),
			"priorities": models.TaskPriorities(),
		},
	})
}

// UserRoles lists the valid user roles and statuses.
func (h *MetaHandler) UserRoles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"roles":    models.Roles(),
			"statuses": models.Statuses(),
		},
	})
}

// SystemStats returns global user and task counters.
func (h *MetaHandler) SystemStats(c *gin.Context) {
	totalUsers, err := h.userRepo.CountTotal()
	if err != nil {
		apierrors.Respond(c, "Failed to load system stats", err)
		return
	}
	activeUsers, err := h.userRepo.CountActive()
	if err != nil {
		apierrors.Respond(c, "Failed to load system stats", err)
		return
	}
	totalTasks, err := h.taskRepo.CountTotal()
	if err != nil {
		apierrors.Respond(c, "Failed to load system stats", err)
		return
	}
	completedTasks, err := h.taskRepo.CountCompleted()
	if err != nil {
		apierrors.Respond(c, "Failed to load system stats", err)
		return
	}
	overdueTasks, err := h.taskRepo.CountOverdue()
	if err != nil {
		apierrors.Respond(c, "Failed to load system stats", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total_users":     totalUsers,
			"active_users":    activeUsers,
			"total_tasks":     totalTasks,
			"completed_tasks": completedTasks,
			"pending_tasks":   totalTasks - completedTasks,
			"overdue_tasks":   overdueTasks,
			"server_time":     time.Now().Format(time.RFC3339),
		},
	})
}

// Health is the liveness probe.
func (h *MetaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}
