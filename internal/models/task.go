package models

import "time"

type TaskState string

const (
	TaskStatePlanned    TaskState = "planned"
	TaskStateInProgress TaskState = "in_progress"
	TaskStateDone       TaskState = "done"
)

// Task belongs to exactly one project. Assignee is the worker's login email,
// recorded by value rather than as a foreign key: worker rows and accounts
// are correlated but independently keyed, and a dangling assignee simply
// grants nobody access.
type Task struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	From      time.Time `gorm:"not null" json:"from"`
	To        time.Time `gorm:"not null" json:"to"`
	State     TaskState `gorm:"type:varchar(20);not null;default:'planned'" json:"state"`
	ProjectID uint64    `gorm:"not null;index" json:"project_id"`
	Assignee  string    `gorm:"type:varchar(255);index" json:"assignee"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	Version   uint64    `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
