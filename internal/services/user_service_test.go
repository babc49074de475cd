package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/teamtrackhq/teamtrack-api/internal/database"
	apierrors "github.com/teamtrackhq/teamtrack-api/internal/errors"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// UserServiceTestSuite defines the test suite for UserService
type UserServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	userService *UserService
}

// SetupTest runs before each test
func (suite *UserServiceTestSuite) SetupTest() {
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

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	notifRepo := repository.NewNotificationRepository(suite.db)
	notifier := NewNotificationService(notifRepo, userRepo, nil)
	suite.userService = NewUserService(userRepo, taskRepo, notifRepo, notifier)
}

// TearDownTest runs after each test
func (suite *UserServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *UserServiceTestSuite) createUser(name string, role models.UserRole) *models.User {
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

func (suite *UserServiceTestSuite) createTask(creator *models.User, status models.TaskStatus, assignees ...*models.User) *models.Task {
	task := &models.Task{
		Title:     "Task",
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

func (suite *UserServiceTestSuite) TestCreateUser_Defaults() {
	admin := suite.createUser("Admin", models.RoleAdmin)
	_ = admin

	user, err := suite.userService.CreateUser(CreateUserInput{
		Name:     "New Person",
		Email:    "NEW@Example.com",
		Password: "longenough",
		Role:     models.RoleUser,
	})
	suite.Require().NoError(err)
	suite.Equal("new@example.com", user.Email)
	suite.Equal(models.StatusActive, user.Status)
	suite.NoError(bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")))

	// Admins got the registration notice.
	var count int64
	suite.db.Model(&models.Notification{}).Where("type = ?", models.NotifyNewUser).Count(&count)
	suite.EqualValues(1, count)
}

func (suite *UserServiceTestSuite) TestCreateUser_Validation() {
	_, err := suite.userService.CreateUser(CreateUserInput{
		Name:     "",
		Email:    "",
		Password: "short",
		Role:     "superuser",
	})
	suite.Require().Error(err)

	var validationErr *apierrors.ValidationError
	suite.Require().ErrorAs(err, &validationErr)
	suite.Contains(validationErr.Fields, "name")
	suite.Contains(validationErr.Fields, "email")
	suite.Contains(validationErr.Fields, "password")
	suite.Contains(validationErr.Fields, "role")
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	suite.createUser("Existing", models.RoleUser)

	_, err := suite.userService.CreateUser(CreateUserInput{
		Name:     "Other",
		Email:    "Existing@example.com",
		Password: "longenough",
		Role:     models.RoleUser,
	})

	var conflictErr *apierrors.ConflictError
	suite.Require().ErrorAs(err, &conflictErr)
}

func (suite *UserServiceTestSuite) TestDeleteUser_AdminTargetForbidden() {
	actor := suite.createUser("Actor", models.RoleAdmin)
	target := suite.createUser("Target", models.RoleAdmin)

	err := suite.userService.DeleteUser(target.ID, actor)

	var authErr *apierrors.AuthorizationError
	suite.Require().ErrorAs(err, &authErr)
	suite.Equal("Cannot delete admin users", authErr.Message)
}

func (suite *UserServiceTestSuite) TestDeleteUser_SelfForbidden() {
	actor := suite.createUser("Actor", models.RoleAdmin)
	// Demote so the admin guard cannot trip first.
	suite.db.Model(actor).Update("role", models.RoleUser)
	actor.Role = models.RoleUser

	err := suite.userService.DeleteUser(actor.ID, actor)

	var authErr *apierrors.AuthorizationError
	suite.Require().ErrorAs(err, &authErr)
	suite.Equal("You cannot delete your own account", authErr.Message)
}

func (suite *UserServiceTestSuite) TestDeleteUser_ActiveTasksConflict() {
	actor := suite.createUser("Actor", models.RoleAdmin)
	target := suite.createUser("Target", models.RoleUser)
	suite.createTask(actor, models.TaskStatusInProgress, target)
	suite.createTask(actor, models.TaskStatusOpen, target)

	err := suite.userService.DeleteUser(target.ID, actor)

	var conflictErr *apierrors.ConflictError
	suite.Require().ErrorAs(err, &conflictErr)
	suite.EqualValues(int64(2), conflictErr.Extra["active_tasks"])
}

func (suite *UserServiceTestSuite) TestDeleteUser_CompletedTasksAllowCascade() {
	actor := suite.createUser("Actor", models.RoleAdmin)
	observer := suite.createUser("Observer", models.RoleAdmin)
	target := suite.createUser("Target", models.RoleUser)

	// Completed assignment does not block deletion.
	suite.createTask(actor, models.TaskStatusCompleted, target)
	// A task the target created goes away with them.
	ownTask := suite.createTask(target, models.TaskStatusOpen)
	// Pair reference on a surviving task is nulled, not deleted.
	paired := suite.createTask(actor, models.TaskStatusOpen)
	suite.db.Model(paired).Update("pair_programmer_id", target.ID)

	err := suite.userService.DeleteUser(target.ID, actor)
	suite.Require().NoError(err)

	var userCount int64
	suite.db.Model(&models.User{}).Where("id = ?", target.ID).Count(&userCount)
	suite.EqualValues(0, userCount)

	var taskCount int64
	suite.db.Model(&models.Task{}).Where("id = ?", ownTask.ID).Count(&taskCount)
	suite.EqualValues(0, taskCount)

	var survivor models.Task
	suite.Require().NoError(suite.db.First(&survivor, paired.ID).Error)
	suite.Nil(survivor.PairProgrammerID)

	// The non-acting admin hears about the removal.
	var noticeCount int64
	suite.db.Model(&models.Notification{}).
		Where("type = ? AND user_id = ?", models.NotifyUserRemoved, observer.ID).
		Count(&noticeCount)
	suite.EqualValues(1, noticeCount)
}

func (suite *UserServiceTestSuite) TestUpdateProfile_WrongCurrentPassword() {
	hash, err := bcrypt.GenerateFromPassword([]byte("correcthorse"), bcrypt.DefaultCost)
	suite.Require().NoError(err)
	user := &models.User{
		Name:         "Pat",
		Email:        "pat@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}
	suite.db.Create(user)

	newPassword := "nextpassword"
	_, err = suite.userService.UpdateProfile(user, UpdateProfileInput{
		CurrentPassword: "wrongguess",
		Password:        &newPassword,
	})

	var conflictErr *apierrors.ConflictError
	suite.Require().ErrorAs(err, &conflictErr)
	suite.Equal("Current password is incorrect", conflictErr.Message)
}

func (suite *UserServiceTestSuite) TestFormatProfile_Counts() {
	creator := suite.createUser("Creator", models.RoleAdmin)
	user := suite.createUser("Worker", models.RoleUser)
	suite.createTask(creator, models.TaskStatusInProgress, user)
	suite.createTask(creator, models.TaskStatusCompleted, user)
	suite.db.Create(&models.Notification{UserID: user.ID, Type: models.NotifySystem, Title: "t", Message: "m"})

	profile, err := suite.userService.FormatProfile(user, false, user)
	suite.Require().NoError(err)
	suite.EqualValues(1, profile.ActiveTasksCount)
	suite.EqualValues(1, profile.CompletedTasksCount)
	suite.EqualValues(2, profile.TotalTasksCount)
	suite.EqualValues(1, profile.UnreadNotificationsCount)
	suite.Equal("Locked", profile.MemberStatus)
	suite.Equal("W", profile.Initials)
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
