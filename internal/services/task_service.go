package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/worker-tasks-graphql/internal/models"
	"github.com/yukikurage/worker-tasks-graphql/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
	userRepo repository.UserRepository
	log      *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, log *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		log:      log,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title  string
	UserID uint64
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title *string
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks bounded and ordered by opts
func (s *TaskService) ListTasks(ctx context.Context, opts repository.ListOptions) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTask creates a task and links it to the given user.
//
// The task insert and the user lookup run concurrently; the link is added
// once both have succeeded. If either the lookup or the link fails, the
// inserted task is deleted again so no unlinked task is left behind.
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	task := &models.Task{
		Title: input.Title,
		Users: datatypes.JSON("[]"),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.taskRepo.Create(gctx, task); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := s.userRepo.FindByID(gctx, input.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err == nil {
		if linkErr := s.userRepo.AddTask(ctx, input.UserID, task.ID); linkErr != nil {
			err = fmt.Errorf("failed to add task to user: %w", linkErr)
		}
	}
	if err != nil {
		if task.ID != 0 {
			s.discardTask(ctx, task.ID)
		}
		return nil, err
	}

	return task, nil
}

// discardTask removes a task whose creation could not be completed
func (s *TaskService) discardTask(ctx context.Context, id uint64) {
	if _, err := s.taskRepo.Delete(context.WithoutCancel(ctx), id); err != nil {
		s.log.Error("failed to discard unlinked task", zap.Uint64("task_id", id), zap.Error(err))
	}
}

// UpdateTask updates an existing task and returns its new state
func (s *TaskService) UpdateTask(ctx context.Context, id uint64, input UpdateTaskInput) (*models.Task, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		fields["title"] = *input.Title
	}

	if len(fields) > 0 {
		if _, err := s.taskRepo.Update(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}

	return s.GetTask(ctx, id)
}

// DeleteTask deletes a task and its user links. It returns the task as it
// was before deletion.
func (s *TaskService) DeleteTask(ctx context.Context, id uint64) (*models.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.taskRepo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	if deleted == 0 {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// TaskDevelopers returns the users linked to a task
func (s *TaskService) TaskDevelopers(ctx context.Context, taskID uint64) ([]models.User, error) {
	users, err := s.taskRepo.ListDevelopers(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list developers: %w", err)
	}
	return users, nil
}
