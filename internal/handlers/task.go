package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/teamtrackhq/teamtrack-api/internal/dto"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/middleware"
	"github.com/teamtrackhq/teamtrack-api/internal/services"
	"github.com/teamtrackhq/teamtrack-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// List returns tasks matching the query filters.
func (h *TaskHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	input := services.ListTasksInput{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if raw := c.Query("assignee_id"); raw != "" {
		assigneeID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "assignee_id must be numeric")
			return
		}
		input.AssigneeID = &assigneeID
	}

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		apierrors.Respond(c, "Failed to list tasks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       dto.ToTaskDTOs(tasks),
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

// MyTasks returns tasks the authenticated user created or is assigned to.
func (h *TaskHandler) MyTasks(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	tasks, err := h.taskService.MyTasks(userID)
	if err != nil {
		apierrors.Respond(c, "Failed to list tasks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.ToTaskDTOs(tasks),
	})
}

// Show returns a single task with its relations.
func (h *TaskHandler) Show(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(id)
	if err != nil {
		apierrors.Respond(c, "Failed to load task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.ToTaskDTO(task),
	})
}

// Create adds a new task.
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	type CreateRequest struct {
		Title            string   `json:"title" binding:"required"`
		Description      string   `json:"description"`
		Status           string   `json:"status"`
		Priority         string   `json:"priority"`
		DueDate          *string  `json:"due_date"`
		TimeEstimate     *float64 `json:"time_estimate"`
		Assignees        []uint64 `json:"assignees"`
		PairProgrammerID *uint64  `json:"pair_programmer_id"`
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		Priority:         req.Priority,
		DueDate:          req.DueDate,
		TimeEstimate:     req.TimeEstimate,
		AssigneeIDs:      req.Assignees,
		PairProgrammerID: req.PairProgrammerID,
	}, actor)
	if err != nil {
		apierrors.Respond(c, "Failed to create task", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task created successfully",
		"data":    dto.ToTaskDTO(task),
	})
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	type UpdateRequest struct {
		Title            *string   `json:"title"`
		Description      *string   `json:"description"`
		Status           *string   `json:"status"`
		Priority         *string   `json:"priority"`
		DueDate          *string   `json:"due_date"`
		TimeEstimate     *float64  `json:"time_estimate"`
		Assignees        *[]uint64 `json:"assignees"`
		PairProgrammerID *uint64   `json:"pair_programmer_id"`
		ClearPair        bool      `json:"clear_pair_programmer"`
		ClearDueDate     bool      `json:"clear_due_date"`
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(id, services.UpdateTaskInput{
		Title:            req.Title,
		Description:      req.Description,
		Status:           req.Status,
		Priority:         req.Priority,
		DueDate:          req.DueDate,
		TimeEstimate:     req.TimeEstimate,
		AssigneeIDs:      req.Assignees,
		PairProgrammerID: req.PairProgrammerID,
		ClearPair:        req.ClearPair,
		ClearDueDate:     req.ClearDueDate,
	}, actor)
	if err != nil {
		apierrors.Respond(c, "Failed to update task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task updated successfully",
		"data":    dto.ToTaskDTO(task),
	})
}

// Delete removes a task with its assignments and comments.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		apierrors.Respond(c, "Failed to delete task", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted successfully",
	})
}
