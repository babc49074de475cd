package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type NotificationType string

const (
	NotifyTaskAssigned  NotificationType = "task_assigned"
	NotifyTaskUpdated   NotificationType = "task_updated"
	NotifyTaskCompleted NotificationType = "task_completed"
	NotifyTaskOverdue   NotificationType = "task_overdue"
	NotifyNewUser       NotificationType = "new_user"
	NotifyUserRemoved   NotificationType = "user_removed"
	NotifySystem        NotificationType = "system"
)

// RelatedKind tags the entity a notification points at. A notification can
// reference a task, a user, or nothing.
type RelatedKind string

const (
	RelatedTask RelatedKind = "task"
	RelatedUser RelatedKind = "user"
)

// JSONMap is a schemaless JSON column holding the per-type payload.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONMap", value)
	}
	return json.Unmarshal(b, m)
}

type Notification struct {
	ID          uint64           `gorm:"primarykey" json:"id"`
	UserID      uint64           `gorm:"not null;index" json:"user_id"`
	Type        NotificationType `gorm:"type:varchar(50);not null;index" json:"type"`
	Title       string           `gorm:"type:varchar(255);not null" json:"title"`
	Message     string           `gorm:"type:text;not null" json:"message"`
	Data        JSONMap          `gorm:"type:json" json:"data"`
	ReadAt      *time.Time       `gorm:"index" json:"read_at"`
	RelatedType *RelatedKind     `gorm:"type:varchar(20)" json:"related_type"`
	RelatedID   *uint64          `json:"related_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// IsRead reports whether the notification has been read.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// RelatedTaskRef returns a related reference pointing at a task.
func RelatedTaskRef(taskID uint64) (*RelatedKind, *uint64) {
	kind := RelatedTask
	return &kind, &taskID
}

// RelatedUserRef returns a related reference pointing at a user.
func RelatedUserRef(userID uint64) (*RelatedKind, *uint64) {
	kind := RelatedUser
	return &kind, &userID
}
