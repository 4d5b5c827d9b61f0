package graph

import (
	"fmt"

	"github.com/graphql-go/graphql"
	apierrors "github.com/yukikurage/worker-tasks-graphql/internal/errors"
	"github.com/yukikurage/worker-tasks-graphql/internal/models"
	"github.com/yukikurage/worker-tasks-graphql/internal/services"
	"go.uber.org/zap"
)

func (s *Schema) resolveUser(p graphql.ResolveParams) (interface{}, error) {
	id, ok := idArg(p, "id")
	if !ok {
		return nil, nil
	}

	user, err := s.users.GetUser(p.Context, id)
	if err != nil {
		return s.nullIfNotFound(p, err)
	}
	return user, nil
}

func (s *Schema) resolveUsers(p graphql.ResolveParams) (interface{}, error) {
	opts, err := s.userAttrs.ParseOrder(stringArg(p, "order"))
	if err != nil {
		return nil, s.fail(p, err)
	}
	opts.Limit = intArg(p, "limit")

	users, err := s.users.ListUsers(p.Context, opts)
	if err != nil {
		return nil, s.fail(p, err)
	}
	return userRefs(users), nil
}

func (s *Schema) resolveTask(p graphql.ResolveParams) (interface{}, error) {
	id, ok := idArg(p, "id")
	if !ok {
		return nil, nil
	}

	task, err := s.tasks.GetTask(p.Context, id)
	if err != nil {
		return s.nullIfNotFound(p, err)
	}
	return task, nil
}

func (s *Schema) resolveTasks(p graphql.ResolveParams) (interface{}, error) {
	opts, err := s.taskAttrs.ParseOrder(stringArg(p, "order"))
	if err != nil {
		return nil, s.fail(p, err)
	}
	opts.Limit = intArg(p, "limit")

	tasks, err := s.tasks.ListTasks(p.Context, opts)
	if err != nil {
		return nil, s.fail(p, err)
	}
	return taskRefs(tasks), nil
}

func (s *Schema) resolveUserTasks(p graphql.ResolveParams) (interface{}, error) {
	user, ok := p.Source.(*models.User)
	if !ok {
		return nil, fmt.Errorf("unexpected source %T for User.tasks", p.Source)
	}

	tasks, err := s.users.UserTasks(p.Context, user.ID)
	if err != nil {
		return nil, s.fail(p, err)
	}
	return taskRefs(tasks), nil
}

func (s *Schema) resolveTaskDevelopers(p graphql.ResolveParams) (interface{}, error) {
	task, ok := p.Source.(*models.Task)
	if !ok {
		return nil, fmt.Errorf("unexpected source %T for Task.developers", p.Source)
	}

	users, err := s.tasks.TaskDevelopers(p.Context, task.ID)
	if err != nil {
		return nil, s.fail(p, err)
	}
	return userRefs(users), nil
}

func (s *Schema) resolveCreateUser(p graphql.ResolveParams) (interface{}, error) {
	user, err := s.users.CreateUser(p.Context, services.CreateUserInput{
		Name: stringArg(p, "name"),
	})
	if err != nil {
		return nil, s.fail(p, err)
	}
	return user, nil
}

func (s *Schema) resolveUpdateUser(p graphql.ResolveParams) (interface{}, error) {
	id, ok := idArg(p, "id")
	if !ok {
		return nil, nil
	}

	user, err := s.users.UpdateUser(p.Context, id, services.UpdateUserInput{
		Name: stringOption(p, "options", "name"),
	})
	if err != nil {
		return s.nullIfNotFound(p, err)
	}
	return user, nil
}

func (s *Schema) resolveDeleteUser(p graphql.ResolveParams) (interface{}, error) {
	id, ok := idArg(p, "id")
	if !ok {
		return nil, nil
	}

	user, err := s.users.DeleteUser(p.Context, id)
	if err != nil {
		return s.nullIfNotFound(p, err)
	}
	return user, nil
}

func (s *Schema) resolveCreateTask(p graphql.ResolveParams) (interface{}, error) {
	userID, ok := idArg(p, "userId")
	if !ok {
		return nil, s.fail(p, services.ErrUserNotFound)
	}

	task, err := s.tasks.CreateTask(p.Context, services.CreateTaskInput{
		Title:  stringArg(p, "title"),
		UserID: userID,
	})
	if err != nil {
		return nil, s.fail(p, err)
	}
	return task, nil
}

func (s *Schema) resolveUpdateTask(p graphql.ResolveParams) (interface{}, error) {
	id, ok := idArg(p, "id")
	if !ok {
		return nil, nil
	}

	task, err := s.tasks.UpdateTask(p.Context, id, services.UpdateTaskInput{
		Title: stringOption(p, "options", "title"),
	})
	if err != nil {
		return s.nullIfNotFound(p, err)
	}
	return task, nil
}

func (s *Schema) resolveDeleteTask(p graphql.ResolveParams) (interface{}, error) {
	id, ok := idArg(p, "id")
	if !ok {
		return nil, nil
	}

	task, err := s.tasks.DeleteTask(p.Context, id)
	if err != nil {
		return s.nullIfNotFound(p, err)
	}
	return task, nil
}

func (s *Schema) resolveAddTaskToUser(p graphql.ResolveParams) (interface{}, error) {
	userID, ok := idArg(p, "userId")
	if !ok {
		return nil, s.fail(p, services.ErrUserNotFound)
	}
	taskID, ok := idArg(p, "taskId")
	if !ok {
		return nil, s.fail(p, services.ErrTaskNotFound)
	}

	user, err := s.users.AddTask(p.Context, userID, taskID)
	if err != nil {
		return nil, s.fail(p, err)
	}
	return user, nil
}

// nullIfNotFound resolves a field to null when err is a not-found error and
// fails it otherwise.
func (s *Schema) nullIfNotFound(p graphql.ResolveParams, err error) (interface{}, error) {
	if services.IsNotFound(err) {
		return nil, nil
	}
	return nil, s.fail(p, err)
}

// fail converts err into the error reported for the field. Internal errors
// are logged since their cause is not sent to the client.
func (s *Schema) fail(p graphql.ResolveParams, err error) error {
	apiErr := apierrors.FromError(err)
	if apiErr.Code == apierrors.ErrCodeInternalError {
		s.log.Error("resolver failed",
			zap.String("field", p.Info.FieldName),
			zap.Error(err),
		)
	}
	return apiErr
}

// idArg reads a non-negative Int argument as an ID
func idArg(p graphql.ResolveParams, name string) (uint64, bool) {
	v, ok := p.Args[name].(int)
	if !ok || v < 0 {
		return 0, false
	}
	return uint64(v), true
}

func intArg(p graphql.ResolveParams, name string) int {
	v, _ := p.Args[name].(int)
	return v
}

func stringArg(p graphql.ResolveParams, name string) string {
	v, _ := p.Args[name].(string)
	return v
}

// stringOption reads a field of an input object argument. Absent and null
// fields yield nil.
func stringOption(p graphql.ResolveParams, arg, field string) *string {
	options, ok := p.Args[arg].(map[string]interface{})
	if !ok {
		return nil
	}
	v, ok := options[field].(string)
	if !ok {
		return nil
	}
	return &v
}

func userRefs(users []models.User) []*models.User {
	refs := make([]*models.User, len(users))
	for i := range users {
		refs[i] = &users[i]
	}
	return refs
}

func taskRefs(tasks []models.Task) []*models.Task {
	refs := make([]*models.Task, len(tasks))
	for i := range tasks {
		refs[i] = &tasks[i]
	}
	return refs
}
