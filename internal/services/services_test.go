package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/worker-tasks-graphql/internal/database"
	"github.com/yukikurage/worker-tasks-graphql/internal/models"
	"github.com/yukikurage/worker-tasks-graphql/internal/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// failingLinkRepo fails every AddTask call
type failingLinkRepo struct {
	repository.UserRepository
}

func (r failingLinkRepo) AddTask(context.Context, uint64, uint64) error {
	return errors.New("link failed")
}

// ServiceTestSuite defines the test suite for UserService and TaskService
type ServiceTestSuite struct {
	suite.Suite
	db          *gorm.DB
	userRepo    repository.UserRepository
	taskRepo    repository.TaskRepository
	userService *UserService
	taskService *TaskService
	ctx         context.Context
}

// SetupTest runs before each test
func (suite *ServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	// A single connection keeps every goroutine on the same in-memory database
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(database.Migrate(suite.db))

	suite.userRepo = repository.NewUserRepository(suite.db)
	suite.taskRepo = repository.NewTaskRepository(suite.db)
	suite.userService = NewUserService(suite.userRepo, suite.taskRepo)
	suite.taskService = NewTaskService(suite.taskRepo, suite.userRepo, zap.NewNop())
	suite.ctx = context.Background()
}

// TearDownTest runs after each test
func (suite *ServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ServiceTestSuite) createUser(name string) *models.User {
	user, err := suite.userService.CreateUser(suite.ctx, CreateUserInput{Name: name})
	suite.Require().NoError(err)
	return user
}

func (suite *ServiceTestSuite) countTasks() int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.Task{}).Count(&count).Error)
	return count
}

func (suite *ServiceTestSuite) TestCreateUser_AssignsFreshID() {
	alice := suite.createUser("Alice")
	bob := suite.createUser("Bob")

	suite.NotZero(alice.ID)
	suite.NotEqual(alice.ID, bob.ID)
	suite.Equal("Alice", alice.Name)
}

func (suite *ServiceTestSuite) TestCreateUser_NameRequired() {
	_, err := suite.userService.CreateUser(suite.ctx, CreateUserInput{Name: "  "})
	suite.ErrorIs(err, ErrNameRequired)
}

func (suite *ServiceTestSuite) TestGetUser_NotFound() {
	_, err := suite.userService.GetUser(suite.ctx, 99)
	suite.ErrorIs(err, ErrUserNotFound)
	suite.True(IsNotFound(err))
}

func (suite *ServiceTestSuite) TestUpdateUser() {
	user := suite.createUser("Alice")
	name := "X"

	updated, err := suite.userService.UpdateUser(suite.ctx, user.ID, UpdateUserInput{Name: &name})
	suite.Require().NoError(err)
	suite.Equal("X", updated.Name)

	found, err := suite.userService.GetUser(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.Equal("X", found.Name)
}

func (suite *ServiceTestSuite) TestUpdateUser_NoOptions() {
	user := suite.createUser("Alice")

	updated, err := suite.userService.UpdateUser(suite.ctx, user.ID, UpdateUserInput{})
	suite.Require().NoError(err)
	suite.Equal("Alice", updated.Name)
}

func (suite *ServiceTestSuite) TestUpdateUser_Errors() {
	user := suite.createUser("Alice")
	empty := ""
	name := "X"

	_, err := suite.userService.UpdateUser(suite.ctx, user.ID, UpdateUserInput{Name: &empty})
	suite.ErrorIs(err, ErrNameEmpty)

	_, err = suite.userService.UpdateUser(suite.ctx, 99, UpdateUserInput{Name: &name})
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestDeleteUser_ThenLookupFails() {
	user := suite.createUser("Alice")

	deleted, err := suite.userService.DeleteUser(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.Equal(user.ID, deleted.ID)
	suite.Equal("Alice", deleted.Name)

	_, err = suite.userService.GetUser(suite.ctx, user.ID)
	suite.ErrorIs(err, ErrUserNotFound)

	_, err = suite.userService.DeleteUser(suite.ctx, user.ID)
	suite.ErrorIs(err, ErrUserNotFound)
}

func (suite *ServiceTestSuite) TestListUsers_Limit() {
	for _, name := range []string{"Alice", "Bob", "Carol", "Dave"} {
		suite.createUser(name)
	}

	users, err := suite.userService.ListUsers(suite.ctx, repository.ListOptions{Limit: 2})
	suite.Require().NoError(err)
	suite.Len(users, 2)

	users, err = suite.userService.ListUsers(suite.ctx, repository.ListOptions{})
	suite.Require().NoError(err)
	suite.Len(users, 4)
}

func (suite *ServiceTestSuite) TestCreateTask_LinksToUser() {
	user := suite.createUser("Alice")

	task, err := suite.taskService.CreateTask(suite.ctx, CreateTaskInput{Title: "Write docs", UserID: user.ID})
	suite.Require().NoError(err)
	suite.NotZero(task.ID)
	suite.Equal("Write docs", task.Title)
	suite.JSONEq("[]", string(task.Users))

	tasks, err := suite.userService.UserTasks(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("Write docs", tasks[0].Title)

	developers, err := suite.taskService.TaskDevelopers(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(developers, 1)
	suite.Equal(user.ID, developers[0].ID)
}

func (suite *ServiceTestSuite) TestCreateTask_UnknownUserLeavesNoTask() {
	_, err := suite.taskService.CreateTask(suite.ctx, CreateTaskInput{Title: "Orphan", UserID: 404})
	suite.ErrorIs(err, ErrUserNotFound)
	suite.Zero(suite.countTasks())
}

func (suite *ServiceTestSuite) TestCreateTask_LinkFailureLeavesNoTask() {
	user := suite.createUser("Alice")
	service := NewTaskService(suite.taskRepo, failingLinkRepo{suite.userRepo}, zap.NewNop())

	_, err := service.CreateTask(suite.ctx, CreateTaskInput{Title: "Write docs", UserID: user.ID})
	suite.EqualError(err, "failed to add task to user: link failed")
	suite.Zero(suite.countTasks())
}

func (suite *ServiceTestSuite) TestCreateTask_TitleRequired() {
	user := suite.createUser("Alice")

	_, err := suite.taskService.CreateTask(suite.ctx, CreateTaskInput{Title: "", UserID: user.ID})
	suite.ErrorIs(err, ErrTitleRequired)
	suite.Zero(suite.countTasks())
}

func (suite *ServiceTestSuite) TestUpdateTask() {
	user := suite.createUser("Alice")
	task, err := suite.taskService.CreateTask(suite.ctx, CreateTaskInput{Title: "Draft", UserID: user.ID})
	suite.Require().NoError(err)

	title := "Final"
	updated, err := suite.taskService.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Title: &title})
	suite.Require().NoError(err)
	suite.Equal("Final", updated.Title)

	empty := " "
	_, err = suite.taskService.UpdateTask(suite.ctx, task.ID, UpdateTaskInput{Title: &empty})
	suite.ErrorIs(err, ErrTitleEmpty)

	_, err = suite.taskService.UpdateTask(suite.ctx, 99, UpdateTaskInput{Title: &title})
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestDeleteTask_RemovesLinks() {
	user := suite.createUser("Alice")
	task, err := suite.taskService.CreateTask(suite.ctx, CreateTaskInput{Title: "Write docs", UserID: user.ID})
	suite.Require().NoError(err)

	deleted, err := suite.taskService.DeleteTask(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Equal(task.ID, deleted.ID)

	tasks, err := suite.userService.UserTasks(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.Empty(tasks)

	_, err = suite.taskService.GetTask(suite.ctx, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestAddTask() {
	alice := suite.createUser("Alice")
	bob := suite.createUser("Bob")
	task, err := suite.taskService.CreateTask(suite.ctx, CreateTaskInput{Title: "Pair", UserID: alice.ID})
	suite.Require().NoError(err)

	user, err := suite.userService.AddTask(suite.ctx, bob.ID, task.ID)
	suite.Require().NoError(err)
	suite.Equal(bob.ID, user.ID)

	// Adding the same pair twice keeps a single link
	_, err = suite.userService.AddTask(suite.ctx, bob.ID, task.ID)
	suite.Require().NoError(err)

	developers, err := suite.taskService.TaskDevelopers(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.Len(developers, 2)

	_, err = suite.userService.AddTask(suite.ctx, 99, task.ID)
	suite.ErrorIs(err, ErrUserNotFound)

	_, err = suite.userService.AddTask(suite.ctx, bob.ID, 99)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
