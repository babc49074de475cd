package repository

import (
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/database"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db
	for _, p := range preload {
		query = query.Preload(p)
	}
	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering and pagination, newest first
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.AssigneeID != nil {
		assigneeSubQuery := r.db.Model(&models.TaskAssignee{}).
			Select("1").
			Where("task_assignees.task_id = tasks.id").
			Where("task_assignees.user_id = ?", *filter.AssigneeID)
		query = query.Where("EXISTS (?)", assigneeSubQuery)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("tasks.title LIKE ? OR tasks.description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	var tasks []models.Task
	if err := listQuery.
		Preload("Creator").
		Preload("Assignments.User").
		Preload("PairProgrammer").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// ListForUser retrieves tasks the user created or is assigned to
func (r *GormTaskRepository) ListForUser(userID uint64) ([]models.Task, error) {
	assigneeSubQuery := r.db.Model(&models.TaskAssignee{}).
		Select("1").
		Where("task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID)

	var tasks []models.Task
	if err := r.db.
		Where("tasks.created_by = ? OR EXISTS (?)", userID, assigneeSubQuery).
		Order("tasks.created_at DESC").
		Preload("Creator").
		Preload("Assignments.User").
		Preload("PairProgrammer").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task together with its assignments and comments
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskAssignee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, id).Error
	})
}

// AttachAssignees adds the given users to a task, keeping existing ones
func (r *GormTaskRepository) AttachAssignees(taskID uint64, userIDs []uint64) error {
	if len(userIDs) == 0 {
		return nil
	}
	assignees := make([]models.TaskAssignee, len(userIDs))
	for i, userID := range userIDs {
		assignees[i] = models.TaskAssignee{TaskID: taskID, UserID: userID}
	}
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&assignees).Error
}

// SyncAssignees replaces the full assignee set of a task. An empty set
// removes all assignees. Delete-then-insert in one transaction gives
// last-writer-wins semantics between concurrent syncs.
func (r *GormTaskRepository) SyncAssignees(taskID uint64, userIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskAssignee{}).Error; err != nil {
			return err
		}
		if len(userIDs) == 0 {
			return nil
		}
		assignees := make([]models.TaskAssignee, len(userIDs))
		for i, userID := range userIDs {
			assignees[i] = models.TaskAssignee{TaskID: taskID, UserID: userID}
		}
		return tx.Create(&assignees).Error
	})
}

// ListOverdue retrieves past-due, non-completed tasks with assignees
func (r *GormTaskRepository) ListOverdue() ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("due_date < ?", time.Now()).
		Where("status != ?", models.TaskStatusCompleted).
		Preload("Assignments.User").
		Preload("Creator").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListRecent retrieves the most recently created tasks
func (r *GormTaskRepository) ListRecent(limit int) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Preload("Creator").
		Preload("Assignments.User").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListUpdatedSince retrieves tasks updated after the cutoff, newest first
func (r *GormTaskRepository) ListUpdatedSince(cutoff time.Time, limit int) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("updated_at > ?", cutoff).
		Order("updated_at DESC").
		Limit(limit).
		Preload("Creator").
		Preload("Assignments.User").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListAssignedPairTasks retrieves active tasks assigned to the user that have
// a pair programmer other than the user
func (r *GormTaskRepository) ListAssignedPairTasks(userID uint64) ([]models.Task, error) {
	assigneeSubQuery := r.db.Model(&models.TaskAssignee{}).
		Select("1").
		Where("task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID)

	var tasks []models.Task
	if err := r.db.
		Where("EXISTS (?)", assigneeSubQuery).
		Where("pair_programmer_id IS NOT NULL").
		Where("pair_programmer_id != ?", userID).
		Where("status != ?", models.TaskStatusCompleted).
		Preload("PairProgrammer").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListPairProgrammerTasks retrieves active tasks where the user is the pair
// programmer
func (r *GormTaskRepository) ListPairProgrammerTasks(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Where("pair_programmer_id = ?", userID).
		Where("status != ?", models.TaskStatusCompleted).
		Preload("Assignments.User").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *GormTaskRepository) countAssigned(userID uint64) *gorm.DB {
	return r.db.Model(&models.Task{}).
		Joins("JOIN task_assignees ON task_assignees.task_id = tasks.id").
		Where("task_assignees.user_id = ?", userID)
}

// CountAssignedActive counts the user's non-completed assignments
func (r *GormTaskRepository) CountAssignedActive(userID uint64) (int64, error) {
	var count int64
	err := r.countAssigned(userID).
		Where("tasks.status != ?", models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}

// CountAssignedCompleted counts the user's completed assignments
func (r *GormTaskRepository) CountAssignedCompleted(userID uint64) (int64, error) {
	var count int64
	err := r.countAssigned(userID).
		Where("tasks.status = ?", models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}

// CountAssignedTotal counts all of the user's assignments
func (r *GormTaskRepository) CountAssignedTotal(userID uint64) (int64, error) {
	var count int64
	err := r.countAssigned(userID).Count(&count).Error
	return count, err
}

// CountByStatus returns task counts grouped by status
func (r *GormTaskRepository) CountByStatus() (map[models.TaskStatus]int64, error) {
	type statusCount struct {
		Status models.TaskStatus
		Count  int64
	}
	var rows []statusCount
	if err := r.db.Model(&models.Task{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountCreatedBetween counts tasks created within [from, to)
func (r *GormTaskRepository) CountCreatedBetween(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// CountCompletedBetween counts completed tasks updated within [from, to)
func (r *GormTaskRepository) CountCompletedBetween(from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("status = ?", models.TaskStatusCompleted).
		Where("updated_at >= ? AND updated_at < ?", from, to).
		Count(&count).Error
	return count, err
}

// CountTotal counts all tasks
func (r *GormTaskRepository) CountTotal() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}

// CountCompleted counts completed tasks
func (r *GormTaskRepository) CountCompleted() (int64, error) {
	return r.CountWithStatus(models.TaskStatusCompleted)
}

// CountActive counts non-completed tasks
func (r *GormTaskRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("status != ?", models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}

// CountWithStatus counts tasks having the given status
func (r *GormTaskRepository) CountWithStatus(status models.TaskStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// CountOverdue counts past-due, non-completed tasks
func (r *GormTaskRepository) CountOverdue() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("due_date < ?", time.Now()).
		Where("status != ?", models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}
