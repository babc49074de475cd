package dto

import (
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/models"
)

// TeamMemberDTO is the trimmed listing for the team-members endpoint.
type TeamMemberDTO struct {
	ID         uint64          `json:"id"`
	Name       string          `json:"name"`
	Role       models.UserRole `json:"role"`
	Department string          `json:"department"`
}

// UserListItemDTO represents one row of the admin user listing.
type UserListItemDTO struct {
	ID                  uint64          `json:"id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Role                models.UserRole `json:"role"`
	Department          string          `json:"department"`
	ActiveTasksCount    int64           `json:"active_tasks_count"`
	CompletedTasksCount int64           `json:"completed_tasks_count"`
	PairTasksCount      int             `json:"pair_tasks_count"`
	PairedWith          *string         `json:"paired_with"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ProfileTaskDTO summarizes an assigned task inside a profile response.
type ProfileTaskDTO struct {
	ID        uint64            `json:"id"`
	Title     string            `json:"title"`
	Status    models.TaskStatus `json:"status"`
	DueDate   *string           `json:"due_date"`
	IsOverdue bool              `json:"is_overdue"`
}

// CreatedTaskDTO summarizes a created task inside a profile response.
type CreatedTaskDTO struct {
	ID             uint64            `json:"id"`
	Title          string            `json:"title"`
	Status         models.TaskStatus `json:"status"`
	AssigneesCount int               `json:"assignees_count"`
}

// UserProfileDTO is the formatted profile returned by every successful user
// mutation. All counts are computed fresh from current data.
type UserProfileDTO struct {
	ID                       uint64            `json:"id"`
	Name                     string            `json:"name"`
	Email                    string            `json:"email"`
	Role                     models.UserRole   `json:"role"`
	Status                   models.UserStatus `json:"status"`
	Department               string            `json:"department"`
	Phone                    string            `json:"phone"`
	Initials                 string            `json:"initials"`
	MemberStatus             string            `json:"member_status"`
	ActiveTasksCount         int64             `json:"active_tasks_count"`
	CompletedTasksCount      int64             `json:"completed_tasks_count"`
	TotalTasksCount          int64             `json:"total_tasks_count"`
	UnreadNotificationsCount int64             `json:"unread_notifications_count"`
	CreatedAt                string            `json:"created_at"`
	UpdatedAt                time.Time         `json:"updated_at"`
	AssignedTasks            []ProfileTaskDTO  `json:"assigned_tasks,omitempty"`
	CreatedTasks             []CreatedTaskDTO  `json:"created_tasks,omitempty"`
}

// UserCounts carries the freshly computed derived counts for a profile.
type UserCounts struct {
	Active int64
	Done   int64
	Total  int64
	Unread int64
}

// ToUserProfileDTO builds the formatted profile from a user and live counts.
func ToUserProfileDTO(user *models.User, counts UserCounts) UserProfileDTO {
	return UserProfileDTO{
		ID:                       user.ID,
		Name:                     user.Name,
		Email:                    user.Email,
		Role:                     user.Role,
		Status:                   user.Status,
		Department:               user.Department,
		Phone:                    user.Phone,
		Initials:                 user.Initials(),
		MemberStatus:             models.MemberStatus(counts.Active),
		ActiveTasksCount:         counts.Active,
		CompletedTasksCount:      counts.Done,
		TotalTasksCount:          counts.Total,
		UnreadNotificationsCount: counts.Unread,
		CreatedAt:                user.CreatedAt.Format("Jan 2, 2006"),
		UpdatedAt:                user.UpdatedAt,
	}
}

// ToProfileTaskDTO summarizes an assigned task for a profile response.
func ToProfileTaskDTO(task *models.Task) ProfileTaskDTO {
	var dueDate *string
	if task.DueDate != nil {
		formatted := task.DueDate.Format("Jan 2, 2006")
		dueDate = &formatted
	}
	return ProfileTaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		Status:    task.Status,
		DueDate:   dueDate,
		IsOverdue: task.IsOverdue(),
	}
}

// ToTeamMemberDTO converts a user to the team-member listing shape.
func ToTeamMemberDTO(user models.User) TeamMemberDTO {
	return TeamMemberDTO{
		ID:         user.ID,
		Name:       user.Name,
		Role:       user.Role,
		Department: user.Department,
	}
}
