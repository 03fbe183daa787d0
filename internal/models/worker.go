package models

import "time"

type WorkerStatus string

const (
	WorkerStatusActive  WorkerStatus = "active"
	WorkerStatusOnLeave WorkerStatus = "on_leave"
	WorkerStatusFired   WorkerStatus = "fired"
)

type EducationType string

const (
	EducationSecondary EducationType = "secondary"
	EducationBachelor  EducationType = "bachelor"
	EducationMaster    EducationType = "master"
	EducationDoctorate EducationType = "doctorate"
)

// Worker is the HR-side record of a person. Email mirrors the linked
// account's username and is what tasks reference as assignee.
type Worker struct {
	ID            uint64        `gorm:"primarykey" json:"id"`
	AccountID     uint64        `gorm:"not null;index" json:"account_id"`
	FirstName     string        `gorm:"type:varchar(20);not null" json:"first_name"`
	LastName      string        `gorm:"type:varchar(20);not null" json:"last_name"`
	Email         string        `gorm:"type:varchar(255);not null;index" json:"email"`
	BirthDate     time.Time     `gorm:"not null" json:"birth_date"`
	Position      string        `gorm:"type:varchar(20);not null" json:"position"`
	HireDate      time.Time     `gorm:"not null" json:"hire_date"`
	FireDate      *time.Time    `json:"fire_date"`
	Status        WorkerStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	EducationType EducationType `gorm:"type:varchar(20);not null" json:"education_type"`
	Role          Role          `gorm:"type:varchar(20);not null;default:'worker'" json:"role"`
	IsDeleted     bool          `gorm:"not null;default:false" json:"is_deleted"`
	Version       uint64        `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relations
	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}

// FullName joins the name fields for display.
func (w Worker) FullName() string {
	return w.FirstName + " " + w.LastName
}
