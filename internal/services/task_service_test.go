package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/teamtrackhq/teamtrack-api/internal/database"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskServiceTestSuite defines the test suite for TaskService
type TaskServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	taskService *TaskService
}

// SetupTest runs before each test
func (suite *TaskServiceTestSuite) SetupTest() {
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
	notifRepo := repository.NewNotificationRepository(suite.db)
	notifier := NewNotificationService(notifRepo, userRepo, nil)
	suite.taskService = NewTaskService(taskRepo, userRepo, notifier)
}

// TearDownTest runs after each test
func (suite *TaskServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskServiceTestSuite) createUser(name string, role models.UserRole) *models.User {
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

func (suite *TaskServiceTestSuite) TestCreateTask_Defaults() {
	creator := suite.createUser("Creator", models.RoleAdmin)

	task, err := suite.taskService.CreateTask(CreateTaskInput{Title: "  Write docs  "}, creator)
	suite.Require().NoError(err)
	suite.Equal("Write docs", task.Title)
	suite.Equal(models.TaskStatusNew, task.Status)
	suite.Equal(models.PriorityMedium, task.Priority)
	suite.Nil(task.DueDate)
	suite.Equal(creator.ID, task.CreatedBy)
}

func (suite *TaskServiceTestSuite) TestCreateTask_NotifiesAssignees() {
	creator := suite.createUser("Creator", models.RoleAdmin)
	alice := suite.createUser("Alice", models.RoleUser)
	bob := suite.createUser("Bob", models.RoleUser)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:       "Pair work",
		AssigneeIDs: []uint64{alice.ID, bob.ID},
	}, creator)
	suite.Require().NoError(err)
	suite.Len(task.Assignments, 2)

	var count int64
	suite.db.Model(&models.Notification{}).Where("type = ?", models.NotifyTaskAssigned).Count(&count)
	suite.EqualValues(2, count)
}

func (suite *TaskServiceTestSuite) TestCreateTask_UnknownAssignee() {
	creator := suite.createUser("Creator", models.RoleAdmin)

	_, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:       "Broken",
		AssigneeIDs: []uint64{999},
	}, creator)

	var validationErr *apierrors.ValidationError
	suite.Require().ErrorAs(err, &validationErr)
	suite.Contains(validationErr.Fields, "assignees")
}

func (suite *TaskServiceTestSuite) TestCreateTask_InvalidFields() {
	creator := suite.createUser("Creator", models.RoleAdmin)
	badDate := "not-a-date"

	_, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:    "",
		Status:   "Archived",
		Priority: "Urgent",
		DueDate:  &badDate,
	}, creator)

	var validationErr *apierrors.ValidationError
	suite.Require().ErrorAs(err, &validationErr)
	suite.Contains(validationErr.Fields, "title")
	suite.Contains(validationErr.Fields, "status")
	suite.Contains(validationErr.Fields, "priority")
	suite.Contains(validationErr.Fields, "due_date")
}

func (suite *TaskServiceTestSuite) TestUpdateTask_SyncReplacesAssignees() {
	creator := suite.createUser("Creator", models.RoleAdmin)
	alice := suite.createUser("Alice", models.RoleUser)
	bob := suite.createUser("Bob", models.RoleUser)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:       "Handover",
		AssigneeIDs: []uint64{alice.ID},
	}, creator)
	suite.Require().NoError(err)

	newSet := []uint64{bob.ID}
	updated, err := suite.taskService.UpdateTask(task.ID, UpdateTaskInput{
		AssigneeIDs: &newSet,
	}, creator)
	suite.Require().NoError(err)

	suite.Equal([]uint64{bob.ID}, updated.AssigneeIDs())

	// Only the newly added assignee got an assignment notice here.
	var count int64
	suite.db.Model(&models.Notification{}).
		Where("type = ? AND user_id = ?", models.NotifyTaskAssigned, bob.ID).
		Count(&count)
	suite.EqualValues(1, count)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_EmptySetClearsAssignees() {
	creator := suite.createUser("Creator", models.RoleAdmin)
	alice := suite.createUser("Alice", models.RoleUser)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:       "Unassign me",
		AssigneeIDs: []uint64{alice.ID},
	}, creator)
	suite.Require().NoError(err)

	empty := []uint64{}
	updated, err := suite.taskService.UpdateTask(task.ID, UpdateTaskInput{
		AssigneeIDs: &empty,
	}, creator)
	suite.Require().NoError(err)
	suite.Empty(updated.Assignments)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_StatusChangeNotifies() {
	creator := suite.createUser("Creator", models.RoleAdmin)
	alice := suite.createUser("Alice", models.RoleUser)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:       "Progress",
		AssigneeIDs: []uint64{alice.ID},
	}, creator)
	suite.Require().NoError(err)

	status := string(models.TaskStatusInProgress)
	_, err = suite.taskService.UpdateTask(task.ID, UpdateTaskInput{Status: &status}, creator)
	suite.Require().NoError(err)

	var count int64
	suite.db.Model(&models.Notification{}).
		Where("type = ? AND user_id = ?", models.NotifyTaskUpdated, alice.ID).
		Count(&count)
	suite.EqualValues(1, count)
}

func (suite *TaskServiceTestSuite) TestUpdateTask_SameStatusSendsNothing() {
	creator := suite.createUser("Creator", models.RoleAdmin)
	alice := suite.createUser("Alice", models.RoleUser)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:       "No change",
		Status:      string(models.TaskStatusOpen),
		AssigneeIDs: []uint64{alice.ID},
	}, creator)
	suite.Require().NoError(err)

	status := string(models.TaskStatusOpen)
	_, err = suite.taskService.UpdateTask(task.ID, UpdateTaskInput{Status: &status}, creator)
	suite.Require().NoError(err)

	var count int64
	suite.db.Model(&models.Notification{}).Where("type = ?", models.NotifyTaskUpdated).Count(&count)
	suite.EqualValues(0, count)
}

func (suite *TaskServiceTestSuite) TestDeleteTask_RemovesAssignmentsAndComments() {
	creator := suite.createUser("Creator", models.RoleAdmin)
	alice := suite.createUser("Alice", models.RoleUser)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:       "Doomed",
		AssigneeIDs: []uint64{alice.ID},
	}, creator)
	suite.Require().NoError(err)
	suite.db.Create(&models.TaskComment{TaskID: task.ID, UserID: alice.ID, Comment: "note"})

	suite.Require().NoError(suite.taskService.DeleteTask(task.ID))

	var assignees, comments int64
	suite.db.Model(&models.TaskAssignee{}).Where("task_id = ?", task.ID).Count(&assignees)
	suite.db.Model(&models.TaskComment{}).Where("task_id = ?", task.ID).Count(&comments)
	suite.EqualValues(0, assignees)
	suite.EqualValues(0, comments)

	err = suite.taskService.DeleteTask(task.ID)
	var notFoundErr *apierrors.NotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func TestTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TaskServiceTestSuite))
}
