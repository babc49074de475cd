package repository

import (
	"time"

	"github.com/teamtrackhq/teamtrack-api/internal/database"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/utils"
	"gorm.io/gorm"
)

// GormNotificationRepository is a GORM implementation of NotificationRepository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &GormNotificationRepository{db: db}
}

// notificationSortColumns whitelists the sortable columns for inbox listings.
var notificationSortColumns = map[string]string{
	"created_at": "notifications.created_at",
	"type":       "notifications.type",
	"read_at":    "notifications.read_at",
}

// Create inserts a notification row
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// List retrieves notifications with filtering, sorting and pagination
func (r *GormNotificationRepository) List(filter NotificationFilter) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{})

	if filter.UserID != nil {
		query = query.Where("notifications.user_id = ?", *filter.UserID)
	}
	if filter.AdminsOnly {
		query = query.
			Joins("JOIN users ON users.id = notifications.user_id").
			Where("users.role = ?", models.RoleAdmin)
	}
	if filter.Type != nil {
		query = query.Where("notifications.type = ?", *filter.Type)
	}
	switch filter.ReadStatus {
	case "unread":
		query = query.Where("notifications.read_at IS NULL")
	case "read":
		query = query.Where("notifications.read_at IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := notificationSortColumns[filter.SortBy]
	if !ok {
		column = "notifications.created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}
	query = query.Order(column + " " + direction)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	var notifications []models.Notification
	if err := query.Preload("User").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// MarkRead sets read_at on the user's unread rows among ids. Already-read
// rows are untouched, so re-marking is a no-op and counts zero.
func (r *GormNotificationRepository) MarkRead(userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Where("read_at IS NULL").
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

// MarkUnread clears read_at on the user's read rows among ids
func (r *GormNotificationRepository) MarkUnread(userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Where("read_at IS NOT NULL").
		Update("read_at", nil)
	return result.RowsAffected, result.Error
}

// MarkAllRead sets read_at on all of the user's unread rows
func (r *GormNotificationRepository) MarkAllRead(userID uint64) (int64, error) {
	result := r.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where("read_at IS NULL").
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

// Delete removes the user's rows among ids
func (r *GormNotificationRepository) Delete(userID uint64, ids []uint64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}

// CountUnread counts the user's unread notifications
func (r *GormNotificationRepository) CountUnread(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Where("read_at IS NULL").
		Count(&count).Error
	return count, err
}

// HasOverdueForTaskSince reports whether a task_overdue notification related
// to the task was created at or after the cutoff. The overdue sweep uses a
// start-of-day cutoff to dedup per task per day.
func (r *GormNotificationRepository) HasOverdueForTaskSince(taskID uint64, cutoff time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("type = ?", models.NotifyTaskOverdue).
		Where("related_type = ?", models.RelatedTask).
		Where("related_id = ?", taskID).
		Where("created_at >= ?", cutoff).
		Count(&count).Error
	return count > 0, err
}
