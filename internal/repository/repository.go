package repository

import (
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/models"
)

// UserFilter holds filtering options for listing users
type UserFilter struct {
	Role      *models.UserRole
	Status    *models.UserStatus
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Status     *models.TaskStatus
	AssigneeID *uint64
	Search     string
	Page       int
	PageSize   int
}

// NotificationFilter holds filtering options for listing notifications
type NotificationFilter struct {
	UserID     *uint64
	AdminsOnly bool
	Type       *models.NotificationType
	ReadStatus string // "", "read" or "unread"
	SortBy     string
	SortOrder  string
	Page       int
	PageSize   int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByIDWithTasks finds a user with assigned and created tasks preloaded
	FindByIDWithTasks(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// EmailTaken reports whether email belongs to a user other than excludeID
	EmailTaken(email string, excludeID uint64) (bool, error)

	// List retrieves users with filtering, sorting and optional pagination
	List(filter UserFilter) ([]models.User, int64, error)

	// ListAdmins retrieves all admin users
	ListAdmins() ([]models.User, error)

	// ListByRole retrieves all users with the given role
	ListByRole(role models.UserRole) ([]models.User, error)

	// ListByIDs retrieves the users with the given IDs
	ListByIDs(ids []uint64) ([]models.User, error)

	// ListAll retrieves every user
	ListAll() ([]models.User, error)

	// ListTeamMembers retrieves active non-admin users ordered by name
	ListTeamMembers() ([]models.User, error)

	// ListNonAdmins retrieves all non-admin users
	ListNonAdmins() ([]models.User, error)

	// ListRegisteredSince retrieves users created after the cutoff, newest first
	ListRegisteredSince(cutoff time.Time, limit int) ([]models.User, error)

	// Update persists changes to a user inside a transaction
	Update(user *models.User) error

	// DeleteCascade removes the user, their created tasks (with assignments
	// and comments), their own assignments and comments, their notifications,
	// and nulls pair-programmer references, all in one transaction
	DeleteCascade(id uint64) error

	// CountUsersByIDs counts how many of the given user IDs exist
	CountUsersByIDs(ids []uint64) (int64, error)

	// CountTotal counts all users
	CountTotal() (int64, error)

	// CountActive counts users with active status
	CountActive() (int64, error)

	// CountNonAdmins counts non-admin users
	CountNonAdmins() (int64, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks with filtering and pagination, newest first
	List(filter TaskFilter) ([]models.Task, int64, error)

	// ListForUser retrieves tasks the user created or is assigned to
	ListForUser(userID uint64) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task together with its assignments and comments
	Delete(id uint64) error

	// AttachAssignees adds the given users to a task, keeping existing ones
	AttachAssignees(taskID uint64, userIDs []uint64) error

	// SyncAssignees replaces the full assignee set of a task
	SyncAssignees(taskID uint64, userIDs []uint64) error

	// ListOverdue retrieves past-due, non-completed tasks with assignees
	ListOverdue() ([]models.Task, error)

	// ListRecent retrieves the most recently created tasks
	ListRecent(limit int) ([]models.Task, error)

	// ListUpdatedSince retrieves tasks updated after the cutoff, newest first
	ListUpdatedSince(cutoff time.Time, limit int) ([]models.Task, error)

	// ListAssignedPairTasks retrieves active tasks assigned to the user that
	// have a pair programmer other than the user
	ListAssignedPairTasks(userID uint64) ([]models.Task, error)

	// ListPairProgrammerTasks retrieves active tasks where the user is the
	// pair programmer
	ListPairProgrammerTasks(userID uint64) ([]models.Task, error)

	// CountAssignedActive counts the user's non-completed assignments
	CountAssignedActive(userID uint64) (int64, error)

	// CountAssignedCompleted counts the user's completed assignments
	CountAssignedCompleted(userID uint64) (int64, error)

	// CountAssignedTotal counts all of the user's assignments
	CountAssignedTotal(userID uint64) (int64, error)

	// CountByStatus returns task counts grouped by status
	CountByStatus() (map[models.TaskStatus]int64, error)

	// CountCreatedBetween counts tasks created within [from, to)
	CountCreatedBetween(from, to time.Time) (int64, error)

	// CountCompletedBetween counts completed tasks updated within [from, to)
	CountCompletedBetween(from, to time.Time) (int64, error)

	// CountTotal counts all tasks
	CountTotal() (int64, error)

	// CountCompleted counts completed tasks
	CountCompleted() (int64, error)

	// CountActive counts non-completed tasks
	CountActive() (int64, error)

	// CountWithStatus counts tasks having the given status
	CountWithStatus(status models.TaskStatus) (int64, error)

	// CountOverdue counts past-due, non-completed tasks
	CountOverdue() (int64, error)
}

// CommentRepository defines the interface for task comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.TaskComment) error

	// FindByID finds a comment by ID
	FindByID(id uint64) (*models.TaskComment, error)

	// ListByTask retrieves a task's comments with authors, newest first
	ListByTask(taskID uint64) ([]models.TaskComment, error)

	// Update persists changes to a comment
	Update(comment *models.TaskComment) error

	// Delete removes a comment
	Delete(id uint64) error
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create inserts a notification row
	Create(notification *models.Notification) error

	// List retrieves notifications with filtering, sorting and pagination
	List(filter NotificationFilter) ([]models.Notification, int64, error)

	// MarkRead sets read_at on the user's unread rows among ids and returns
	// the number of newly marked rows
	MarkRead(userID uint64, ids []uint64) (int64, error)

	// MarkUnread clears read_at on the user's read rows among ids and returns
	// the number of newly cleared rows
	MarkUnread(userID uint64, ids []uint64) (int64, error)

	// MarkAllRead sets read_at on all of the user's unread rows
	MarkAllRead(userID uint64) (int64, error)

	// Delete removes the user's rows among ids and returns the deleted count
	Delete(userID uint64, ids []uint64) (int64, error)

	// CountUnread counts the user's unread notifications
	CountUnread(userID uint64) (int64, error)

	// HasOverdueForTaskSince reports whether a task_overdue notification
	// related to the task was created at or after the cutoff
	HasOverdueForTaskSince(taskID uint64, cutoff time.Time) (bool, error)
}
