package models

import "time"

// WorkerTask is the join row between a User and a Task. The pair is the
// primary key, so a user can be linked to a given task at most once.
type WorkerTask struct {
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	TaskID    uint64    `gorm:"primarykey;index:idx_worker_tasks_task_id" json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}
