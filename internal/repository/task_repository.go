package repository

import (
	"context"

	"github.com/yukikurage/worker-tasks-graphql/internal/database"
	"github.com/yukikurage/worker-tasks-graphql/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with an optional limit and order
func (r *GormTaskRepository) List(ctx context.Context, opts ListOptions) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Scopes(database.OrderBy(opts.OrderColumn, opts.Desc), database.Limit(opts.Limit)).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update applies fields to the task with the given ID
func (r *GormTaskRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// Delete deletes a task and its user links in a transaction
func (r *GormTaskRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.WorkerTask{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// ListDevelopers lists the users linked to a task
func (r *GormTaskRepository) ListDevelopers(ctx context.Context, taskID uint64) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Model(&models.Task{ID: taskID}).
		Association("Developers").
		Find(&users)
	if err != nil {
		return nil, err
	}
	return users, nil
}
