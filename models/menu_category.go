package models

import "time"

type MenuCategory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OwnerEmail   string    `gorm:"type:varchar(255);index;not null" json:"owner_email"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	DisplayOrder int       `gorm:"not null" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
