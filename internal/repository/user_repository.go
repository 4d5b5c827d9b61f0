package repository

import (
	"context"

	"github.com/yukikurage/worker-tasks-graphql/internal/database"
	"github.com/yukikurage/worker-tasks-graphql/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users with an optional limit and order
func (r *GormUserRepository) List(ctx context.Context, opts ListOptions) ([]models.User, error) {
	users := []models.User{}
	err := r.db.WithContext(ctx).
		Scopes(database.OrderBy(opts.OrderColumn, opts.Desc), database.Limit(opts.Limit)).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies fields to the user with the given ID
func (r *GormUserRepository) Update(ctx context.Context, id uint64, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// Delete deletes a user and its task links in a transaction
func (r *GormUserRepository) Delete(ctx context.Context, id uint64) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.WorkerTask{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// AddTask links a task to a user
func (r *GormUserRepository) AddTask(ctx context.Context, userID, taskID uint64) error {
	link := models.WorkerTask{
		UserID: userID,
		TaskID: taskID,
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "task_id"}},
			DoNothing: true,
		}).
		Create(&link).Error
}

// ListTasks lists the tasks linked to a user in link order
func (r *GormUserRepository) ListTasks(ctx context.Context, userID uint64) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Joins("JOIN worker_tasks ON worker_tasks.task_id = tasks.id").
		Where("worker_tasks.user_id = ?", userID).
		Order("worker_tasks.created_at, tasks.id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
