package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTask_IsOverdue(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	tomorrow := time.Now().Add(24 * time.Hour)

	tests := []struct {
		name    string
		dueDate *time.Time
		status  TaskStatus
		want    bool
	}{
		{"past due and open", &yesterday, TaskStatusOpen, true},
		{"past due and in progress", &yesterday, TaskStatusInProgress, true},
		{"past due but completed", &yesterday, TaskStatusCompleted, false},
		{"due in the future", &tomorrow, TaskStatusOpen, false},
		{"no due date", nil, TaskStatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{DueDate: tt.dueDate, Status: tt.status}
			require.Equal(t, tt.want, task.IsOverdue())
		})
	}
}

func TestTask_HasAssignee(t *testing.T) {
	task := Task{
		Assignments: []TaskAssignee{
			{UserID: 1, User: User{Name: "Alice"}},
			{UserID: 2, User: User{Name: "Bob"}},
		},
	}

	require.True(t, task.HasAssignee(1))
	require.True(t, task.HasAssignee(2))
	require.False(t, task.HasAssignee(3))
	require.Equal(t, []string{"Alice", "Bob"}, task.AssigneeNames())
	require.Equal(t, []uint64{1, 2}, task.AssigneeIDs())
}

func TestValidTaskStatus(t *testing.T) {
	for _, status := range TaskStatuses() {
		require.True(t, ValidTaskStatus(status))
	}
	require.False(t, ValidTaskStatus("Archived"))
	require.False(t, ValidTaskStatus(""))
}

func TestValidTaskPriority(t *testing.T) {
	for _, priority := range TaskPriorities() {
		require.True(t, ValidTaskPriority(priority))
	}
	require.False(t, ValidTaskPriority("Urgent"))
}
