package repository

import (
	"context"

	"github.com/yukikurage/worker-tasks-graphql/internal/models"
)

// ListOptions controls how a collection is read
type ListOptions struct {
	// Limit bounds the number of rows; zero or less means no bound.
	Limit int
	// OrderColumn is a column name of the listed table; empty leaves the order
	// to the database.
	OrderColumn string
	Desc        bool
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// List retrieves users with an optional limit and order
	List(ctx context.Context, opts ListOptions) ([]models.User, error)

	// Update applies fields to the user with the given ID and returns the
	// number of rows matched
	Update(ctx context.Context, id uint64, fields map[string]interface{}) (int64, error)

	// Delete deletes a user together with its task links
	Delete(ctx context.Context, id uint64) (int64, error)

	// AddTask links a task to a user. Linking an already linked pair is a no-op.
	AddTask(ctx context.Context, userID, taskID uint64) error

	// ListTasks lists the tasks linked to a user
	ListTasks(ctx context.Context, userID uint64) ([]models.Task, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id uint64) (*models.Task, error)

	// List retrieves tasks with an optional limit and order
	List(ctx context.Context, opts ListOptions) ([]models.Task, error)

	// Update applies fields to the task with the given ID and returns the
	// number of rows matched
	Update(ctx context.Context, id uint64, fields map[string]interface{}) (int64, error)

	// Delete deletes a task together with its user links
	Delete(ctx context.Context, id uint64) (int64, error)

	// ListDevelopers lists the users linked to a task
	ListDevelopers(ctx context.Context, taskID uint64) ([]models.User, error)
}
