package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
)

// NotificationService synchronously inserts notification rows for domain
// events. It is invoked inline by the other services, never queued. A failed
// insert is logged and swallowed: dispatch must never fail or roll back the
// triggering operation, so callers invoke it after their transaction commits.
type NotificationService struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	logger    *slog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifRepo repository.NotificationRepository, userRepo repository.UserRepository, logger *slog.Logger) *NotificationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		logger:    logger,
	}
}

// TaskAssigned notifies a user about being assigned to a task.
func (s *NotificationService) TaskAssigned(task *models.Task, user *models.User) {
	var dueDate any
	if task.DueDate != nil {
		dueDate = task.DueDate.Format("2006-01-02")
	}
	relatedType, relatedID := models.RelatedTaskRef(task.ID)
	s.create(&models.Notification{
		UserID:  user.ID,
		Type:    models.NotifyTaskAssigned,
		Title:   fmt.Sprintf("New Task Assigned: %q", task.Title),
		Message: fmt.Sprintf("You have been assigned to task %q by %s.", task.Title, task.Creator.Name),
		Data: models.JSONMap{
			"task_id":     task.ID,
			"task_title":  task.Title,
			"assigned_by": task.Creator.Name,
			"due_date":    dueDate,
		},
		RelatedType: relatedType,
		RelatedID:   relatedID,
	})
}

// TaskStatusChanged notifies all assignees, plus the creator when they are
// neither the actor nor an assignee. A change to Completed additionally fans
// out the completion notice to admins.
func (s *NotificationService) TaskStatusChanged(task *models.Task, oldStatus, newStatus models.TaskStatus, actor *models.User) {
	relatedType, relatedID := models.RelatedTaskRef(task.ID)
	data := models.JSONMap{
		"task_id":    task.ID,
		"task_title": task.Title,
		"old_status": string(oldStatus),
		"new_status": string(newStatus),
		"updated_by": actor.Name,
	}

	for _, assignment := range task.Assignments {
		s.create(&models.Notification{
			UserID:      assignment.UserID,
			Type:        models.NotifyTaskUpdated,
			Title:       fmt.Sprintf("Task Status Updated: %q", task.Title),
			Message:     fmt.Sprintf("Task %q status changed from %q to %q.", task.Title, oldStatus, newStatus),
			Data:        data,
			RelatedType: relatedType,
			RelatedID:   relatedID,
		})
	}

	if task.CreatedBy != actor.ID && !task.HasAssignee(task.CreatedBy) {
		s.create(&models.Notification{
			UserID:      task.CreatedBy,
			Type:        models.NotifyTaskUpdated,
			Title:       fmt.Sprintf("Task Status Updated: %q", task.Title),
			Message:     fmt.Sprintf("Your task %q status changed from %q to %q.", task.Title, oldStatus, newStatus),
			Data:        data,
			RelatedType: relatedType,
			RelatedID:   relatedID,
		})
	}

	if newStatus == models.TaskStatusCompleted {
		s.TaskCompleted(task)
	}
}

// TaskCompleted notifies all admins about a completed task.
func (s *NotificationService) TaskCompleted(task *models.Task) {
	admins, err := s.userRepo.ListAdmins()
	if err != nil {
		s.logger.Error("failed to load admins for completion notice",
			slog.Uint64("task_id", task.ID),
			slog.String("error", err.Error()))
		return
	}

	completedBy := strings.Join(task.AssigneeNames(), ", ")
	relatedType, relatedID := models.RelatedTaskRef(task.ID)
	for _, admin := range admins {
		s.create(&models.Notification{
			UserID:  admin.ID,
			Type:    models.NotifyTaskCompleted,
			Title:   fmt.Sprintf("Task Completed: %q", task.Title),
			Message: fmt.Sprintf("Task %q has been completed by %s.", task.Title, completedBy),
			Data: models.JSONMap{
				"task_id":         task.ID,
				"task_title":      task.Title,
				"completed_by":    task.AssigneeNames(),
				"completion_date": time.Now().Format("2006-01-02 15:04:05"),
			},
			RelatedType: relatedType,
			RelatedID:   relatedID,
		})
	}
}

// TaskOverdue notifies all assignees and all admins about an overdue task.
// Per-day dedup is the overdue sweep's responsibility.
func (s *NotificationService) TaskOverdue(task *models.Task) {
	if task.DueDate == nil {
		return
	}
	daysOverdue := int(time.Since(*task.DueDate).Hours() / 24)
	relatedType, relatedID := models.RelatedTaskRef(task.ID)

	for _, assignment := range task.Assignments {
		s.create(&models.Notification{
			UserID:  assignment.UserID,
			Type:    models.NotifyTaskOverdue,
			Title:   fmt.Sprintf("Task Overdue: %q", task.Title),
			Message: fmt.Sprintf("Task %q is now overdue. Due date was %s.", task.Title, task.DueDate.Format("Jan 2, 2006")),
			Data: models.JSONMap{
				"task_id":      task.ID,
				"task_title":   task.Title,
				"due_date":     task.DueDate.Format("2006-01-02"),
				"days_overdue": daysOverdue,
			},
			RelatedType: relatedType,
			RelatedID:   relatedID,
		})
	}

	admins, err := s.userRepo.ListAdmins()
	if err != nil {
		s.logger.Error("failed to load admins for overdue notice",
			slog.Uint64("task_id", task.ID),
			slog.String("error", err.Error()))
		return
	}
	assignees := strings.Join(task.AssigneeNames(), ", ")
	for _, admin := range admins {
		s.create(&models.Notification{
			UserID:  admin.ID,
			Type:    models.NotifyTaskOverdue,
			Title:   fmt.Sprintf("Overdue Task Alert: %q", task.Title),
			Message: fmt.Sprintf("Task %q assigned to %s is now overdue.", task.Title, assignees),
			Data: models.JSONMap{
				"task_id":      task.ID,
				"task_title":   task.Title,
				"assignees":    task.AssigneeNames(),
				"due_date":     task.DueDate.Format("2006-01-02"),
				"days_overdue": daysOverdue,
			},
			RelatedType: relatedType,
			RelatedID:   relatedID,
		})
	}
}

// NewUserRegistered notifies all admins about a newly registered user.
func (s *NotificationService) NewUserRegistered(newUser *models.User) {
	admins, err := s.userRepo.ListAdmins()
	if err != nil {
		s.logger.Error("failed to load admins for registration notice",
			slog.Uint64("user_id", newUser.ID),
			slog.String("error", err.Error()))
		return
	}

	relatedType, relatedID := models.RelatedUserRef(newUser.ID)
	for _, admin := range admins {
		s.create(&models.Notification{
			UserID:  admin.ID,
			Type:    models.NotifyNewUser,
			Title:   "New User Registered: " + newUser.Name,
			Message: fmt.Sprintf("%s has joined the team as a %s.", newUser.Name, capitalize(string(newUser.Role))),
			Data: models.JSONMap{
				"new_user_id":       newUser.ID,
				"new_user_name":     newUser.Name,
				"new_user_role":     string(newUser.Role),
				"new_user_email":    newUser.Email,
				"registration_date": newUser.CreatedAt.Format("2006-01-02 15:04:05"),
			},
			RelatedType: relatedType,
			RelatedID:   relatedID,
		})
	}
}

// UserRemoved notifies all admins except the acting one about a removal.
func (s *NotificationService) UserRemoved(removedUser, actor *models.User) {
	admins, err := s.userRepo.ListAdmins()
	if err != nil {
		s.logger.Error("failed to load admins for removal notice",
			slog.Uint64("user_id", removedUser.ID),
			slog.String("error", err.Error()))
		return
	}

	for _, admin := range admins {
		if admin.ID == actor.ID {
			continue
		}
		s.create(&models.Notification{
			UserID: admin.ID,
			Type:   models.NotifyUserRemoved,
			Title:  "User Removed: " + removedUser.Name,
			Message: fmt.Sprintf("%s (%s) has been removed from the team by %s.",
				removedUser.Name, capitalize(string(removedUser.Role)), actor.Name),
			Data: models.JSONMap{
				"removed_user_name": removedUser.Name,
				"removed_user_role": string(removedUser.Role),
				"removed_by":        actor.Name,
				"removal_date":      time.Now().Format("2006-01-02 15:04:05"),
			},
		})
	}
}

// System sends a generic notification. Targets are resolved in order: the
// explicit user IDs, then the role, then every user.
func (s *NotificationService) System(title, message string, userIDs []uint64, role *models.UserRole, data models.JSONMap) {
	users, err := s.userRepo.ListByIDs(userIDs)
	if err != nil {
		s.logger.Error("failed to resolve system notification targets",
			slog.String("error", err.Error()))
		return
	}
	if len(users) == 0 && role != nil {
		users, err = s.userRepo.ListByRole(*role)
		if err != nil {
			s.logger.Error("failed to resolve system notification targets",
				slog.String("error", err.Error()))
			return
		}
	}
	if len(users) == 0 {
		users, err = s.userRepo.ListAll()
		if err != nil {
			s.logger.Error("failed to resolve system notification targets",
				slog.String("error", err.Error()))
			return
		}
	}

	for _, user := range users {
		s.create(&models.Notification{
			UserID:  user.ID,
			Type:    models.NotifySystem,
			Title:   title,
			Message: message,
			Data:    data,
		})
	}
}

func (s *NotificationService) create(notification *models.Notification) {
	if err := s.notifRepo.Create(notification); err != nil {
		s.logger.Error("failed to create notification",
			slog.Uint64("user_id", notification.UserID),
			slog.String("type", string(notification.Type)),
			slog.String("error", err.Error()))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
