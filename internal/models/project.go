package models

import "time"

// Project owns the membership of its task collection. Deletion is always the
// soft kind: IsDeleted is flipped and cascaded to the tasks, rows are never
// removed, so admins can still fetch a deleted project by id.
type Project struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	From      time.Time `gorm:"not null" json:"from"`
	To        time.Time `gorm:"not null" json:"to"`
	IsDeleted bool      `gorm:"not null;default:false" json:"is_deleted"`
	Version   uint64    `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:ProjectID" json:"tasks,omitempty"`
}
