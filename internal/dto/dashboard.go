package dto

import (
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/models"
)

// DashboardStats is the headline counter block on the admin dashboard.
type DashboardStats struct {
	TotalTasks     int64   `json:"total_tasks"`
	TotalMembers   int64   `json:"total_members"`
	CompletionRate float64 `json:"completion_rate"`
	OverdueTasks   int64   `json:"overdue_tasks"`
	ActiveTasks    int64   `json:"active_tasks"`
	NewTasks       int64   `json:"new_tasks"`
}

// RecentTaskDTO is one row of the dashboard's recent-tasks table.
type RecentTaskDTO struct {
	ID        uint64            `json:"id"`
	Title     string            `json:"title"`
	Status    models.TaskStatus `json:"status"`
	CreatedBy string            `json:"created_by"`
	Assignees []string          `json:"assignees"`
	DueDate   *string           `json:"due_date"`
	IsOverdue bool              `json:"is_overdue"`
	CreatedAt time.Time         `json:"created_at"`
}

// ActivityEntry is one row of the merged recent-activity feed.
type ActivityEntry struct {
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

// UserTaskStats summarizes one user's workload for analytics.
type UserTaskStats struct {
	Name           string `json:"name"`
	TotalTasks     int64  `json:"total_tasks"`
	ActiveTasks    int64  `json:"active_tasks"`
	CompletedTasks int64  `json:"completed_tasks"`
	Status         string `json:"status"`
}

// CompletionRate reports one user's completion ratio.
type CompletionRate struct {
	User           string  `json:"user"`
	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

// OverdueAnalysis summarizes the current overdue backlog.
type OverdueAnalysis struct {
	TotalOverdue       int              `json:"total_overdue"`
	OverdueByUser      map[string]int   `json:"overdue_by_user"`
	AverageOverdueDays float64          `json:"average_overdue_days"`
}

// MonthlyProgress is one month's created-vs-completed bucket.
type MonthlyProgress struct {
	Month     string `json:"month"`
	Created   int64  `json:"created"`
	Completed int64  `json:"completed"`
}

// ToRecentTaskDTO converts a task with preloaded relations.
func ToRecentTaskDTO(task *models.Task) RecentTaskDTO {
	var dueDate *string
	if task.DueDate != nil {
		formatted := task.DueDate.Format("Jan 2, 2006")
		dueDate = &formatted
	}
	createdBy := "Unknown"
	if task.Creator.ID != 0 {
		createdBy = task.Creator.Name
	}
	return RecentTaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		Status:    task.Status,
		CreatedBy: createdBy,
		Assignees: task.AssigneeNames(),
		DueDate:   dueDate,
		IsOverdue: task.IsOverdue(),
		CreatedAt: task.CreatedAt,
	}
}
