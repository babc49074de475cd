package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/teamtrackhq/teamtrack-api/internal/database"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DashboardServiceTestSuite defines the test suite for DashboardService
type DashboardServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	dashboard *DashboardService
}

// SetupTest runs before each test
func (suite *DashboardServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.TaskAssignee{},
		&models.TaskComment{},
		&models.Notification{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	taskRepo := repository.NewTaskRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	suite.dashboard = NewDashboardService(taskRepo, userRepo)
}

// TearDownTest runs after each test
func (suite *DashboardServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *DashboardServiceTestSuite) createUser(name string, role models.UserRole) *models.User {
	user := &models.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hashedpassword",
		Role:         role,
		Status:       models.StatusActive,
	}
	suite.db.Create(user)
	return user
}

func (suite *DashboardServiceTestSuite) createTask(title string, creator *models.User, status models.TaskStatus, assignees ...*models.User) *models.Task {
	task := &models.Task{
		Title:     title,
		Status:    status,
		Priority:  models.PriorityMedium,
		CreatedBy: creator.ID,
	}
	suite.db.Create(task)
	for _, assignee := range assignees {
		suite.db.Create(&models.TaskAssignee{TaskID: task.ID, UserID: assignee.ID})
	}
	return task
}

func (suite *DashboardServiceTestSuite) TestStats() {
	admin := suite.createUser("Admin", models.RoleAdmin)
	worker := suite.createUser("Worker", models.RoleUser)
	suite.createUser("Other", models.RoleUser)

	suite.createTask("New one", admin, models.TaskStatusNew, worker)
	suite.createTask("Doing", admin, models.TaskStatusInProgress, worker)
	suite.createTask("Done", admin, models.TaskStatusCompleted, worker)
	overdue := suite.createTask("Late", admin, models.TaskStatusOpen, worker)
	dueDate := time.Now().Add(-24 * time.Hour)
	suite.db.Model(overdue).Update("due_date", dueDate)

	stats, err := suite.dashboard.Stats()
	suite.Require().NoError(err)

	suite.EqualValues(4, stats.TotalTasks)
	suite.EqualValues(2, stats.TotalMembers) // admins are not members
	suite.EqualValues(3, stats.ActiveTasks)
	suite.EqualValues(1, stats.NewTasks)
	suite.EqualValues(1, stats.OverdueTasks)
	suite.InDelta(25.0, stats.CompletionRate, 0.01)
}

func (suite *DashboardServiceTestSuite) TestRecentActivity_SkipsTouchUpdates() {
	admin := suite.createUser("Admin", models.RoleAdmin)
	// Created and never meaningfully edited: shows up once as a creation.
	suite.createTask("Fresh", admin, models.TaskStatusNew)

	entries, err := suite.dashboard.RecentActivity()
	suite.Require().NoError(err)

	var types []string
	for _, entry := range entries {
		types = append(types, entry.Type)
	}
	suite.Contains(types, "task_created")
	suite.Contains(types, "user_registered")
	suite.NotContains(types, "task_updated")
}

func (suite *DashboardServiceTestSuite) TestRecentActivity_NewestFirst() {
	admin := suite.createUser("Admin", models.RoleAdmin)
	suite.createTask("First", admin, models.TaskStatusNew)
	suite.createTask("Second", admin, models.TaskStatusNew)

	entries, err := suite.dashboard.RecentActivity()
	suite.Require().NoError(err)
	suite.Require().NotEmpty(entries)

	for i := 1; i < len(entries); i++ {
		suite.False(entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
}

func (suite *DashboardServiceTestSuite) TestAnalytics() {
	admin := suite.createUser("Admin", models.RoleAdmin)
	worker := suite.createUser("Worker", models.RoleUser)

	suite.createTask("A", admin, models.TaskStatusOpen, worker)
	suite.createTask("B", admin, models.TaskStatusCompleted, worker)
	overdue := suite.createTask("C", admin, models.TaskStatusInProgress, worker)
	dueDate := time.Now().Add(-48 * time.Hour)
	suite.db.Model(overdue).Update("due_date", dueDate)

	analytics, err := suite.dashboard.Analytics()
	suite.Require().NoError(err)

	suite.EqualValues(1, analytics.TasksByStatus[models.TaskStatusOpen])
	suite.EqualValues(1, analytics.TasksByStatus[models.TaskStatusCompleted])

	suite.Require().Len(analytics.TasksByUser, 1)
	suite.Equal("Worker", analytics.TasksByUser[0].Name)
	suite.EqualValues(3, analytics.TasksByUser[0].TotalTasks)
	suite.EqualValues(2, analytics.TasksByUser[0].ActiveTasks)
	suite.Equal("Paired", analytics.TasksByUser[0].Status)

	suite.Require().Len(analytics.CompletionRates, 1)
	suite.InDelta(33.3, analytics.CompletionRates[0].CompletionRate, 0.1)

	suite.Equal(1, analytics.OverdueAnalysis.TotalOverdue)
	suite.Equal(1, analytics.OverdueAnalysis.OverdueByUser["Worker"])
	suite.InDelta(2.0, analytics.OverdueAnalysis.AverageOverdueDays, 0.2)

	suite.Require().Len(analytics.MonthlyProgress, 6)
	current := analytics.MonthlyProgress[5]
	suite.Equal(time.Now().Format("Jan 2006"), current.Month)
	suite.EqualValues(3, current.Created)
	suite.EqualValues(1, current.Completed)
}

func TestDashboardServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}
