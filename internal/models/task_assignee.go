package models

import "time"

// TaskAssignee is the join record between a task and an assigned user.
type TaskAssignee struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
