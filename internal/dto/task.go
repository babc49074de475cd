package dto

import (
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/models"
)

// TaskUserDTO represents a user attached to a task in API responses.
type TaskUserDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskDTO represents a task in API responses.
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        *string             `json:"due_date"`
	TimeEstimate   *float64            `json:"time_estimate"`
	IsOverdue      bool                `json:"is_overdue"`
	CreatedBy      string              `json:"created_by"`
	Assignees      []TaskUserDTO       `json:"assignees"`
	PairProgrammer *TaskUserDTO        `json:"pair_programmer"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToTaskUserDTO converts a user to the task-attachment shape.
func ToTaskUserDTO(user models.User) TaskUserDTO {
	return TaskUserDTO{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

// ToTaskDTO converts a task with preloaded relations to its response shape.
func ToTaskDTO(task *models.Task) TaskDTO {
	var dueDate *string
	if task.DueDate != nil {
		formatted := task.DueDate.Format("2006-01-02")
		dueDate = &formatted
	}

	createdBy := "Unknown"
	if task.Creator.ID != 0 {
		createdBy = task.Creator.Name
	}

	assignees := make([]TaskUserDTO, 0, len(task.Assignments))
	for _, assignment := range task.Assignments {
		assignees = append(assignees, ToTaskUserDTO(assignment.User))
	}

	var pair *TaskUserDTO
	if task.PairProgrammer != nil && task.PairProgrammer.ID != 0 {
		p := ToTaskUserDTO(*task.PairProgrammer)
		pair = &p
	}

	return TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		DueDate:        dueDate,
		TimeEstimate:   task.TimeEstimate,
		IsOverdue:      task.IsOverdue(),
		CreatedBy:      createdBy,
		Assignees:      assignees,
		PairProgrammer: pair,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i := range tasks {
		items[i] = ToTaskDTO(&tasks[i])
	}
	return items
}
