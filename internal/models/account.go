package models

import "time"

// Account is a login principal. Worker records reference accounts by ID but
// are keyed independently; tasks reference accounts only by email.
type Account struct {
	ID            uint64    `gorm:"primarykey" json:"id"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"type:varchar(255);not null" json:"-"`
	SecurityStamp string    `gorm:"type:varchar(64);not null" json:"-"`
	Role          Role      `gorm:"type:varchar(20);not null;default:'worker'" json:"role"`
	IsDisabled    bool      `gorm:"not null;default:false" json:"is_disabled"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
