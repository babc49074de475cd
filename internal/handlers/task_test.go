package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/teamtrackhq/teamtrack-api/internal/constants"
	"github.com/teamtrackhq/teamtrack-api/internal/database"
	"github.com/teamtrackhq/teamtrack-api/internal/models"
	"github.com/teamtrackhq/teamtrack-api/internal/repository"
	"github.com/teamtrackhq/teamtrack-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
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
	notifier := services.NewNotificationService(notifRepo, userRepo, nil)
	taskService := services.NewTaskService(taskRepo, userRepo, notifier)
	suite.handler = NewTaskHandler(taskService)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(name string, role models.UserRole) *models.User {
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

func (suite *TaskHandlerTestSuite) createTestTask(title string, creator *models.User, assignees ...*models.User) *models.Task {
	task := &models.Task{
		Title:     title,
		Status:    models.TaskStatusOpen,
		Priority:  models.PriorityMedium,
		CreatedBy: creator.ID,
	}
	suite.db.Create(task)
	for _, assignee := range assignees {
		suite.db.Create(&models.TaskAssignee{TaskID: task.ID, UserID: assignee.ID})
	}
	return task
}

// createAuthContext simulates a request that passed RequireAuth.
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, user.ID)
	c.Set(constants.ContextKeyUser, user)

	return c, w
}

func (suite *TaskHandlerTestSuite) setIDParam(c *gin.Context, id uint64) {
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(id, 10)}}
}

func (suite *TaskHandlerTestSuite) TestList_Success() {
	user := suite.createTestUser("Lister", models.RoleUser)
	task := suite.createTestTask("Visible task", user)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, user)
	suite.handler.List(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Contains(suite.T(), response, "data")
	assert.Contains(suite.T(), response, "pagination")

	tasks := response["data"].([]any)
	assert.Len(suite.T(), tasks, 1)
	first := tasks[0].(map[string]any)
	assert.Equal(suite.T(), task.Title, first["title"])
	assert.Equal(suite.T(), false, first["is_overdue"])
}

func (suite *TaskHandlerTestSuite) TestList_StatusFilter() {
	user := suite.createTestUser("Filter", models.RoleUser)
	suite.createTestTask("Open one", user)
	done := suite.createTestTask("Done one", user)
	suite.db.Model(done).Update("status", models.TaskStatusCompleted)

	c, w := suite.createAuthContext("GET", "/api/tasks?status=Completed", nil, user)
	suite.handler.List(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]any
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	tasks := response["data"].([]any)
	assert.Len(suite.T(), tasks, 1)
	assert.Equal(suite.T(), "Done one", tasks[0].(map[string]any)["title"])
}

func (suite *TaskHandlerTestSuite) TestShow_OverdueFlag() {
	user := suite.createTestUser("Viewer", models.RoleUser)
	task := suite.createTestTask("Late", user)
	dueDate := time.Now().Add(-48 * time.Hour)
	suite.db.Model(task).Update("due_date", dueDate)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, user)
	suite.setIDParam(c, task.ID)
	suite.handler.Show(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]any
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]any)
	assert.Equal(suite.T(), true, data["is_overdue"])
}

func (suite *TaskHandlerTestSuite) TestShow_NotFound() {
	user := suite.createTestUser("Viewer", models.RoleUser)

	c, w := suite.createAuthContext("GET", "/api/tasks/99", nil, user)
	suite.setIDParam(c, 99)
	suite.handler.Show(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreate_Success() {
	user := suite.createTestUser("Creator", models.RoleUser)
	assignee := suite.createTestUser("Assignee", models.RoleUser)

	payload := map[string]any{
		"title":     "New work",
		"priority":  "High",
		"due_date":  "2026-12-31",
		"assignees": []uint64{assignee.ID},
	}
	body, _ := json.Marshal(payload)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user)
	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]any
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]any)
	assert.Equal(suite.T(), "New work", data["title"])
	assert.Equal(suite.T(), "New", data["status"])
	assert.Equal(suite.T(), "High", data["priority"])

	assignees := data["assignees"].([]any)
	assert.Len(suite.T(), assignees, 1)
}

func (suite *TaskHandlerTestSuite) TestCreate_ValidationError() {
	user := suite.createTestUser("Creator", models.RoleUser)

	payload := map[string]any{
		"title":  "Bad status",
		"status": "Archived",
	}
	body, _ := json.Marshal(payload)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user)
	suite.handler.Create(c)

	assert.Equal(suite.T(), http.StatusUnprocessableEntity, w.Code)

	var response map[string]any
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), false, response["success"])
	assert.Contains(suite.T(), response["errors"], "status")
}

func (suite *TaskHandlerTestSuite) TestUpdate_Success() {
	user := suite.createTestUser("Editor", models.RoleUser)
	task := suite.createTestTask("Before", user)

	payload := map[string]any{
		"title":  "After",
		"status": "In Progress",
	}
	body, _ := json.Marshal(payload)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user)
	suite.setIDParam(c, task.ID)
	suite.handler.Update(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]any
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	data := response["data"].(map[string]any)
	assert.Equal(suite.T(), "After", data["title"])
	assert.Equal(suite.T(), "In Progress", data["status"])
}

func (suite *TaskHandlerTestSuite) TestDelete_Success() {
	user := suite.createTestUser("Admin", models.RoleAdmin)
	task := suite.createTestTask("Doomed", user)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, user)
	suite.setIDParam(c, task.ID)
	suite.handler.Delete(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Task{}).Count(&count)
	assert.EqualValues(suite.T(), 0, count)
}

func (suite *TaskHandlerTestSuite) TestMyTasks_OnlyOwnAndAssigned() {
	me := suite.createTestUser("Me", models.RoleUser)
	other := suite.createTestUser("Other", models.RoleUser)

	suite.createTestTask("Mine", me)
	suite.createTestTask("Assigned to me", other, me)
	suite.createTestTask("Unrelated", other)

	c, w := suite.createAuthContext("GET", "/api/tasks/my-tasks", nil, me)
	suite.handler.MyTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]any
	assert.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	tasks := response["data"].([]any)
	assert.Len(suite.T(), tasks, 2)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
