package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/worker-tasks-graphql/internal/models"
	"github.com/yukikurage/worker-tasks-graphql/internal/repository"
	"gorm.io/gorm"
)

// UserService handles user business logic
type UserService struct {
	userRepo repository.UserRepository
	taskRepo repository.TaskRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository, taskRepo repository.TaskRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		taskRepo: taskRepo,
	}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Name string
}

// UpdateUserInput represents input for updating a user. Nil fields are left
// untouched.
type UpdateUserInput struct {
	Name *string
}

// GetUser returns a user by ID
func (s *UserService) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns users bounded and ordered by opts
func (s *UserService) ListUsers(ctx context.Context, opts repository.ListOptions) ([]models.User, error) {
	users, err := s.userRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CreateUser creates a new user
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*models.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}

	user := &models.User{Name: input.Name}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// UpdateUser updates an existing user and returns its new state
func (s *UserService) UpdateUser(ctx context.Context, id uint64, input UpdateUserInput) (*models.User, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrNameEmpty
		}
		fields["name"] = *input.Name
	}

	if len(fields) > 0 {
		if _, err := s.userRepo.Update(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	return s.GetUser(ctx, id)
}

// DeleteUser deletes a user and its task links. It returns the user as it
// was before deletion.
func (s *UserService) DeleteUser(ctx context.Context, id uint64) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	deleted, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}
	if deleted == 0 {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UserTasks returns the tasks linked to a user
func (s *UserService) UserTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks, err := s.userRepo.ListTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// AddTask links an existing task to an existing user
func (s *UserService) AddTask(ctx context.Context, userID, taskID uint64) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.taskRepo.FindByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.userRepo.AddTask(ctx, userID, taskID); err != nil {
		return nil, fmt.Errorf("failed to add task to user: %w", err)
	}

	return user, nil
}
