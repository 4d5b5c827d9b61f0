package database

import (
	"context"
	"fmt"

	"github.com/yukikurage/worker-tasks-graphql/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listIndexes back the columns lists are most often ordered by.
var listIndexes = []struct {
	table  string
	name   string
	column string
}{
	{"users", "idx_users_name", "name"},
	{"users", "idx_users_created_at", "created_at"},
	{"tasks", "idx_tasks_created_at", "created_at"},
	{"worker_tasks", "idx_worker_tasks_created_at", "created_at"},
}

// Migrate creates or updates the users, tasks and worker_tasks tables.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.User{}, "Tasks", &models.WorkerTask{}); err != nil {
		return fmt.Errorf("failed to set up join table: %w", err)
	}
	if err := db.SetupJoinTable(&models.Task{}, "Developers", &models.WorkerTask{}); err != nil {
		return fmt.Errorf("failed to set up join table: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.WorkerTask{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	return nil
}

// AddIndexes creates the list ordering indexes that do not exist yet
func AddIndexes(db *gorm.DB) error {
	ctx := context.Background()

	for _, idx := range listIndexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		err := db.Exec("CREATE INDEX ? ON ? (?)",
			clause.Column{Name: idx.name},
			clause.Table{Name: idx.table},
			clause.Column{Name: idx.column},
		).Error
		if err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		db.Logger.Info(ctx, "Created index %s on %s(%s)", idx.name, idx.table, idx.column)
	}

	return nil
}
