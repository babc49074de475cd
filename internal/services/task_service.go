package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/constants"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task lifecycle and assignment logic.
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	notifier *NotificationService
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, notifier *NotificationService) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		notifier: notifier,
	}
}

// ListTasksInput represents filters for the task listing.
type ListTasksInput struct {
	Status     string
	AssigneeID *uint64
	Search     string
	Page       int
	PageSize   int
}

// ListTasks returns tasks matching the filter with relations loaded.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		AssigneeID: input.AssigneeID,
		Search:     input.Search,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}
	if input.Status != "" && input.Status != "all" {
		status := models.TaskStatus(input.Status)
		filter.Status = &status
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// MyTasks returns tasks the user created or is assigned to.
func (s *TaskService) MyTasks(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a task with creator, assignees, pair programmer and
// comments loaded.
func (s *TaskService) GetTask(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, "Creator", "Assignments.User", "PairProgrammer", "Comments.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFound("Task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title            string
	Description      string
	Status           string
	Priority         string
	DueDate          *string
	TimeEstimate     *float64
	AssigneeIDs      []uint64
	PairProgrammerID *uint64
}

// CreateTask creates a task, attaches assignees and notifies each of them.
func (s *TaskService) CreateTask(input CreateTaskInput, actor *models.User) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)

	fields := map[string]string{}
	if title == "" {
		fields["title"] = "title is required"
	}

	status := models.TaskStatusNew
	if input.Status != "" {
		status = models.TaskStatus(input.Status)
		if !models.ValidTaskStatus(status) {
			fields["status"] = "status must be one of New, Open, In Progress, Completed"
		}
	}
	priority := models.PriorityMedium
	if input.Priority != "" {
		priority = models.TaskPriority(input.Priority)
		if !models.ValidTaskPriority(priority) {
			fields["priority"] = "priority must be one of Low, Medium, High, Critical"
		}
	}

	var dueDate *time.Time
	if input.DueDate != nil && *input.DueDate != "" {
		parsed, err := time.Parse(constants.DateLayout, *input.DueDate)
		if err != nil {
			fields["due_date"] = "due_date must be a valid date in YYYY-MM-DD format"
		} else {
			dueDate = &parsed
		}
	}
	if len(fields) > 0 {
		return nil, apierrors.NewValidation("Validation failed", fields)
	}

	if err := s.verifyUserIDs(input.AssigneeIDs, input.PairProgrammerID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:            title,
		Description:      input.Description,
		Status:           status,
		Priority:         priority,
		DueDate:          dueDate,
		TimeEstimate:     input.TimeEstimate,
		CreatedBy:        actor.ID,
		PairProgrammerID: input.PairProgrammerID,
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if len(input.AssigneeIDs) > 0 {
		if err := s.taskRepo.AttachAssignees(task.ID, input.AssigneeIDs); err != nil {
			return nil, fmt.Errorf("failed to attach assignees: %w", err)
		}
	}

	created, err := s.taskRepo.FindByID(task.ID, "Creator", "Assignments.User", "PairProgrammer")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	for i := range created.Assignments {
		s.notifier.TaskAssigned(created, &created.Assignments[i].User)
	}

	return created, nil
}

// UpdateTaskInput represents a partial task update. Nil fields are left
// untouched. A non-nil AssigneeIDs replaces the full assignee set, an empty
// slice clears it.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	Status           *string
	Priority         *string
	DueDate          *string
	TimeEstimate     *float64
	AssigneeIDs      *[]uint64
	PairProgrammerID *uint64
	ClearPair        bool
	ClearDueDate     bool
}

// UpdateTask applies a partial update. Newly added assignees get an
// assignment notice; a status change notifies assignees and the creator.
func (s *TaskService) UpdateTask(id uint64, input UpdateTaskInput, actor *models.User) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, "Creator", "Assignments.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierrors.NewNotFound("Task not found")
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	fields := map[string]string{}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		fields["title"] = "title cannot be empty"
	}
	if input.Status != nil && !models.ValidTaskStatus(models.TaskStatus(*input.Status)) {
		fields["status"] = "status must be one of New, Open, In Progress, Completed"
	}
	if input.Priority != nil && !models.ValidTaskPriority(models.TaskPriority(*input.Priority)) {
		fields["priority"] = "priority must be one of Low, Medium, High, Critical"
	}

	var dueDate *time.Time
	if input.DueDate != nil && *input.DueDate != "" {
		parsed, err := time.Parse(constants.DateLayout, *input.DueDate)
		if err != nil {
			fields["due_date"] = "due_date must be a valid date in YYYY-MM-DD format"
		} else {
			dueDate = &parsed
		}
	}
	if len(fields) > 0 {
		return nil, apierrors.NewValidation("Validation failed", fields)
	}

	var newAssigneeIDs []uint64
	if input.AssigneeIDs != nil {
		if err := s.verifyUserIDs(*input.AssigneeIDs, input.PairProgrammerID); err != nil {
			return nil, err
		}
		existing := make(map[uint64]struct{}, len(task.Assignments))
		for _, assignment := range task.Assignments {
			existing[assignment.UserID] = struct{}{}
		}
		for _, userID := range *input.AssigneeIDs {
			if _, ok := existing[userID]; !ok {
				newAssigneeIDs = append(newAssigneeIDs, userID)
			}
		}
	} else if err := s.verifyUserIDs(nil, input.PairProgrammerID); err != nil {
		return nil, err
	}

	oldStatus := task.Status

	if input.Title != nil {
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		task.Status = models.TaskStatus(*input.Status)
	}
	if input.Priority != nil {
		task.Priority = models.TaskPriority(*input.Priority)
	}
	if dueDate != nil {
		task.DueDate = dueDate
	} else if input.ClearDueDate {
		task.DueDate = nil
	}
	if input.TimeEstimate != nil {
		task.TimeEstimate = input.TimeEstimate
	}
	if input.PairProgrammerID != nil {
		task.PairProgrammerID = input.PairProgrammerID
	} else if input.ClearPair {
		task.PairProgrammerID = nil
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if input.AssigneeIDs != nil {
		if err := s.taskRepo.SyncAssignees(task.ID, *input.AssigneeIDs); err != nil {
			return nil, fmt.Errorf("failed to sync assignees: %w", err)
		}
	}

	updated, err := s.taskRepo.FindByID(task.ID, "Creator", "Assignments.User", "PairProgrammer")
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	if len(newAssigneeIDs) > 0 {
		added, err := s.userRepo.ListByIDs(newAssigneeIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load assignees: %w", err)
		}
		for i := range added {
			s.notifier.TaskAssigned(updated, &added[i])
		}
	}

	if input.Status != nil && updated.Status != oldStatus {
		s.notifier.TaskStatusChanged(updated, oldStatus, updated.Status, actor)
	}

	return updated, nil
}

// DeleteTask removes a task with its assignments and comments.
func (s *TaskService) DeleteTask(id uint64) error {
	if _, err := s.taskRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierrors.NewNotFound("Task not found")
		}
		return fmt.Errorf("failed to find task: %w", err)
	}
	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// verifyUserIDs checks that every referenced user exists.
func (s *TaskService) verifyUserIDs(assigneeIDs []uint64, pairID *uint64) error {
	ids := make([]uint64, 0, len(assigneeIDs)+1)
	seen := make(map[uint64]struct{}, len(assigneeIDs)+1)
	for _, id := range assigneeIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if pairID != nil {
		if _, ok := seen[*pairID]; !ok {
			ids = append(ids, *pairID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	count, err := s.userRepo.CountUsersByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to verify users: %w", err)
	}
	if count != int64(len(ids)) {
		return apierrors.NewValidation("Validation failed", map[string]string{
			"assignees": "one or more referenced users do not exist",
		})
	}
	return nil
}
