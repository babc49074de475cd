package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/constants"
	"github.com/teamtrackhq/teamtrack-api/internal/dto"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
)

// activityEditThreshold separates real edits from touch-on-create updates
// when building the activity feed.
const activityEditThreshold = 5 * time.Minute

// DashboardService aggregates task and user data for the admin dashboard
// and analytics views.
type DashboardService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(taskRepo repository.TaskRepository, userRepo repository.UserRepository) *DashboardService {
	return &DashboardService{
		taskRepo: taskRepo,
		userRepo: userRepo,
	}
}

// Stats returns the headline counters.
func (s *DashboardService) Stats() (dto.DashboardStats, error) {
	totalTasks, err := s.taskRepo.CountTotal()
	if err != nil {
		return dto.DashboardStats{}, fmt.Errorf("failed to count tasks: %w", err)
	}
	completed, err := s.taskRepo.CountCompleted()
	if err != nil {
		return dto.DashboardStats{}, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	active, err := s.taskRepo.CountActive()
	if err != nil {
		return dto.DashboardStats{}, fmt.Errorf("failed to count active tasks: %w", err)
	}
	newTasks, err := s.taskRepo.CountWithStatus(models.TaskStatusNew)
	if err != nil {
		return dto.DashboardStats{}, fmt.Errorf("failed to count new tasks: %w", err)
	}
	overdue, err := s.taskRepo.CountOverdue()
	if err != nil {
		return dto.DashboardStats{}, fmt.Errorf("failed to count overdue tasks: %w", err)
	}
	members, err := s.userRepo.CountNonAdmins()
	if err != nil {
		return dto.DashboardStats{}, fmt.Errorf("failed to count members: %w", err)
	}

	return dto.DashboardStats{
		TotalTasks:     totalTasks,
		TotalMembers:   members,
		CompletionRate: ratio(completed, totalTasks),
		OverdueTasks:   overdue,
		ActiveTasks:    active,
		NewTasks:       newTasks,
	}, nil
}

// RecentTasks returns the latest created tasks for the dashboard table.
func (s *DashboardService) RecentTasks() ([]dto.RecentTaskDTO, error) {
	tasks, err := s.taskRepo.ListRecent(constants.RecentTasksLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}

	rows := make([]dto.RecentTaskDTO, 0, len(tasks))
	for i := range tasks {
		rows = append(rows, dto.ToRecentTaskDTO(&tasks[i]))
	}
	return rows, nil
}

// RecentActivity merges task creations, meaningful task edits from the last
// day and registrations from the last week into one feed, newest first.
func (s *DashboardService) RecentActivity() ([]dto.ActivityEntry, error) {
	now := time.Now()
	var entries []dto.ActivityEntry

	created, err := s.taskRepo.ListRecent(constants.RecentTasksLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent tasks: %w", err)
	}
	for i := range created {
		task := &created[i]
		creator := "Unknown"
		if task.Creator.ID != 0 {
			creator = task.Creator.Name
		}
		entries = append(entries, dto.ActivityEntry{
			Type:        "task_created",
			Title:       fmt.Sprintf("New task created: %s", task.Title),
			Description: fmt.Sprintf("Created by %s", creator),
			Timestamp:   task.CreatedAt,
		})
	}

	updated, err := s.taskRepo.ListUpdatedSince(now.Add(-24*time.Hour), constants.RecentTasksLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list updated tasks: %w", err)
	}
	for i := range updated {
		task := &updated[i]
		if task.UpdatedAt.Sub(task.CreatedAt) <= activityEditThreshold {
			continue
		}
		entries = append(entries, dto.ActivityEntry{
			Type:        "task_updated",
			Title:       fmt.Sprintf("Task updated: %s", task.Title),
			Description: fmt.Sprintf("Status: %s", task.Status),
			Timestamp:   task.UpdatedAt,
		})
	}

	registered, err := s.userRepo.ListRegisteredSince(now.AddDate(0, 0, -7), 3)
	if err != nil {
		return nil, fmt.Errorf("failed to list new users: %w", err)
	}
	for i := range registered {
		user := &registered[i]
		entries = append(entries, dto.ActivityEntry{
			Type:        "user_registered",
			Title:       fmt.Sprintf("New team member: %s", user.Name),
			Description: fmt.Sprintf("Joined as %s", user.Role),
			Timestamp:   user.CreatedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	if len(entries) > constants.RecentActivityLimit {
		entries = entries[:constants.RecentActivityLimit]
	}
	return entries, nil
}

// Analytics is the full analytics payload.
type Analytics struct {
	TasksByStatus   map[models.TaskStatus]int64 `json:"tasks_by_status"`
	TasksByUser     []dto.UserTaskStats         `json:"tasks_by_user"`
	CompletionRates []dto.CompletionRate        `json:"completion_rates"`
	OverdueAnalysis dto.OverdueAnalysis         `json:"overdue_analysis"`
	MonthlyProgress []dto.MonthlyProgress       `json:"monthly_progress"`
}

// Analytics computes the analytics view.
func (s *DashboardService) Analytics() (Analytics, error) {
	byStatus, err := s.taskRepo.CountByStatus()
	if err != nil {
		return Analytics{}, fmt.Errorf("failed to count by status: %w", err)
	}

	byUser, rates, err := s.perUserStats()
	if err != nil {
		return Analytics{}, err
	}

	overdueAnalysis, err := s.overdueAnalysis()
	if err != nil {
		return Analytics{}, err
	}

	monthly, err := s.monthlyProgress()
	if err != nil {
		return Analytics{}, err
	}

	return Analytics{
		TasksByStatus:   byStatus,
		TasksByUser:     byUser,
		CompletionRates: rates,
		OverdueAnalysis: overdueAnalysis,
		MonthlyProgress: monthly,
	}, nil
}

func (s *DashboardService) perUserStats() ([]dto.UserTaskStats, []dto.CompletionRate, error) {
	users, err := s.userRepo.ListNonAdmins()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list users: %w", err)
	}

	stats := make([]dto.UserTaskStats, 0, len(users))
	rates := make([]dto.CompletionRate, 0, len(users))
	for i := range users {
		user := &users[i]
		total, err := s.taskRepo.CountAssignedTotal(user.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to count tasks: %w", err)
		}
		active, err := s.taskRepo.CountAssignedActive(user.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to count active tasks: %w", err)
		}
		completed, err := s.taskRepo.CountAssignedCompleted(user.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to count completed tasks: %w", err)
		}

		stats = append(stats, dto.UserTaskStats{
			Name:           user.Name,
			TotalTasks:     total,
			ActiveTasks:    active,
			CompletedTasks: completed,
			Status:         models.MemberStatus(active),
		})
		rates = append(rates, dto.CompletionRate{
			User:           user.Name,
			TotalTasks:     total,
			CompletedTasks: completed,
			CompletionRate: ratio(completed, total),
		})
	}
	return stats, rates, nil
}

func (s *DashboardService) overdueAnalysis() (dto.OverdueAnalysis, error) {
	overdue, err := s.taskRepo.ListOverdue()
	if err != nil {
		return dto.OverdueAnalysis{}, fmt.Errorf("failed to list overdue tasks: %w", err)
	}

	byUser := make(map[string]int)
	var totalDays float64
	now := time.Now()
	for i := range overdue {
		task := &overdue[i]
		for _, name := range task.AssigneeNames() {
			byUser[name]++
		}
		if task.DueDate != nil {
			totalDays += now.Sub(*task.DueDate).Hours() / 24
		}
	}

	var avgDays float64
	if len(overdue) > 0 {
		avgDays = math.Round(totalDays/float64(len(overdue))*10) / 10
	}

	return dto.OverdueAnalysis{
		TotalOverdue:       len(overdue),
		OverdueByUser:      byUser,
		AverageOverdueDays: avgDays,
	}, nil
}

func (s *DashboardService) monthlyProgress() ([]dto.MonthlyProgress, error) {
	now := time.Now()
	progress := make([]dto.MonthlyProgress, 0, 6)
	for i := 5; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		created, err := s.taskRepo.CountCreatedBetween(start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to count created tasks: %w", err)
		}
		completed, err := s.taskRepo.CountCompletedBetween(start, end)
		if err != nil {
			return nil, fmt.Errorf("failed to count completed tasks: %w", err)
		}

		progress = append(progress, dto.MonthlyProgress{
			Month:     start.Format("Jan 2006"),
			Created:   created,
			Completed: completed,
		})
	}
	return progress, nil
}

// ratio returns part/whole as a percentage rounded to one decimal.
func ratio(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}
