package models

import "time"

// AuthIdentity is the login credential of an owner, kept apart from the
// User row. It may lag behind the User row when creation failed after payment.
type AuthIdentity struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Provider     string    `gorm:"type:varchar(32);not null" json:"provider"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
