package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusNew        TaskStatus = "New"
	TaskStatusOpen       TaskStatus = "Open"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusCompleted  TaskStatus = "Completed"
)

type TaskPriority string

const (
	PriorityLow      TaskPriority = "Low"
	PriorityMedium   TaskPriority = "Medium"
	PriorityHigh     TaskPriority = "High"
	PriorityCritical TaskPriority = "Critical"
)

type Task struct {
	ID               uint64       `gorm:"primarykey" json:"id"`
	Title            string       `gorm:"type:varchar(255);not null" json:"title"`
	Description      string       `gorm:"type:text" json:"description"`
	Status           TaskStatus   `gorm:"type:varchar(20);not null;default:'New';index" json:"status"`
	Priority         TaskPriority `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	DueDate          *time.Time   `gorm:"type:date;index" json:"due_date"`
	TimeEstimate     *float64     `gorm:"type:decimal(5,2)" json:"time_estimate"`
	CreatedBy        uint64       `gorm:"not null;index" json:"created_by"`
	PairProgrammerID *uint64      `json:"pair_programmer_id"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	// Relations
	Creator        User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	PairProgrammer *User          `gorm:"foreignKey:PairProgrammerID" json:"pair_programmer,omitempty"`
	Assignments    []TaskAssignee `gorm:"foreignKey:TaskID" json:"assignments,omitempty"`
	Comments       []TaskComment  `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}

// TaskStatuses lists the valid task statuses in workflow order. Transitions
// are not enforced; any status may be set to any other.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{TaskStatusNew, TaskStatusOpen, TaskStatusInProgress, TaskStatusCompleted}
}

// TaskPriorities lists the valid task priorities.
func TaskPriorities() []TaskPriority {
	return []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// ValidTaskStatus reports whether status is one of the fixed status set.
func ValidTaskStatus(status TaskStatus) bool {
	for _, s := range TaskStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// ValidTaskPriority reports whether priority is one of the fixed priority set.
func ValidTaskPriority(priority TaskPriority) bool {
	for _, p := range TaskPriorities() {
		if p == priority {
			return true
		}
	}
	return false
}

// IsOverdue reports whether the task is past its due date and not completed.
// Computed on read, never persisted.
func (t *Task) IsOverdue() bool {
	return t.DueDate != nil &&
		t.DueDate.Before(time.Now()) &&
		t.Status != TaskStatusCompleted
}

// AssigneeNames returns the names of all preloaded assignees.
func (t *Task) AssigneeNames() []string {
	names := make([]string, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		names = append(names, a.User.Name)
	}
	return names
}

// AssigneeIDs returns the user IDs of all preloaded assignees.
func (t *Task) AssigneeIDs() []uint64 {
	ids := make([]uint64, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		ids = append(ids, a.UserID)
	}
	return ids
}

// HasAssignee reports whether userID is among the preloaded assignees.
func (t *Task) HasAssignee(userID uint64) bool {
	for _, a := range t.Assignments {
		if a.UserID == userID {
			return true
		}
	}
	return false
}
