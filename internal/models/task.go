package models

import (
	"time"

	"gorm.io/datatypes"
)

type Task struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"type:varchar(255)" json:"title"`
	Users     datatypes.JSON `gorm:"type:json" json:"users"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	// Relations
	Developers []User `gorm:"many2many:worker_tasks;joinForeignKey:TaskID;joinReferences:UserID" json:"-"`
}
