package models

import "time"

type TaskComment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	UserID    uint64    `gorm:"not null" json:"user_id"`
	Comment   string    `gorm:"type:varchar(1000);not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"task,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// CanModify reports whether actor may edit or delete the comment. The author
// and admins may; everyone else may not.
func (c *TaskComment) CanModify(actor *User) bool {
	return actor.ID == c.UserID || actor.IsAdmin()
}
