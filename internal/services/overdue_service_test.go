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

// OverdueServiceTestSuite defines the test suite for OverdueService
type OverdueServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	overdue *OverdueService
}

// SetupTest runs before each test
func (suite *OverdueServiceTestSuite) SetupTest() {
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
	notifRepo := repository.NewNotificationRepository(suite.db)
	userRepo := repository.NewUserRepository(suite.db)
	notifier := NewNotificationService(notifRepo, userRepo, nil)
	suite.overdue = NewOverdueService(taskRepo, notifRepo, notifier, nil)
}

// TearDownTest runs after each test
func (suite *OverdueServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *OverdueServiceTestSuite) createOverdueTask(title string, creator, assignee *models.User) *models.Task {
	dueDate := time.Now().Add(-48 * time.Hour)
	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusInProgress,
		Priority:  models.PriorityHigh,
		DueDate:   &dueDate,
		CreatedBy: creator.ID,
	}
	suite.db.Create(task)
	suite.db.Create(&models.TaskAssignee{TaskID: task.ID, UserID: assignee.ID})
	return task
}

func (suite *OverdueServiceTestSuite) TestSweep_SendsOncePerDay() {
	admin := &models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin, Status: models.StatusActive}
	worker := &models.User{Name: "Worker", Email: "worker@example.com", PasswordHash: "x", Role: models.RoleUser, Status: models.StatusActive}
	suite.db.Create(admin)
	suite.db.Create(worker)
	suite.createOverdueTask("Late task", admin, worker)

	processed, notified, err := suite.overdue.Sweep()
	suite.Require().NoError(err)
	suite.Equal(1, processed)
	suite.Equal(1, notified)

	var count int64
	suite.db.Model(&models.Notification{}).Where("type = ?", models.NotifyTaskOverdue).Count(&count)
	// One notice for the assignee, one for the admin.
	suite.EqualValues(2, count)

	// A second run the same day scans the task again but sends nothing.
	processed, notified, err = suite.overdue.Sweep()
	suite.Require().NoError(err)
	suite.Equal(1, processed)
	suite.Equal(0, notified)

	suite.db.Model(&models.Notification{}).Where("type = ?", models.NotifyTaskOverdue).Count(&count)
	suite.EqualValues(2, count)
}

func (suite *OverdueServiceTestSuite) TestSweep_SkipsCompletedAndFutureTasks() {
	admin := &models.User{Name: "Admin", Email: "admin@example.com", PasswordHash: "x", Role: models.RoleAdmin, Status: models.StatusActive}
	worker := &models.User{Name: "Worker", Email: "worker@example.com", PasswordHash: "x", Role: models.RoleUser, Status: models.StatusActive}
	suite.db.Create(admin)
	suite.db.Create(worker)

	done := suite.createOverdueTask("Finished late", admin, worker)
	suite.db.Model(done).Update("status", models.TaskStatusCompleted)

	future := time.Now().Add(48 * time.Hour)
	suite.db.Create(&models.Task{
		Title:     "Not due yet",
		Status:    models.TaskStatusOpen,
		Priority:  models.PriorityMedium,
		DueDate:   &future,
		CreatedBy: admin.ID,
	})

	processed, notified, err := suite.overdue.Sweep()
	suite.Require().NoError(err)
	suite.Equal(0, processed)
	suite.Equal(0, notified)
}

func TestOverdueServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OverdueServiceTestSuite))
}
