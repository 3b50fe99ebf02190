package models

import "time"

// RestaurantProfile is the optional descriptive page of an owner.
type RestaurantProfile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OwnerEmail   string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"owner_email"`
	Cuisine      string    `gorm:"type:varchar(255)" json:"cuisine"`
	Description  string    `gorm:"type:text" json:"description"`
	Address      string    `gorm:"type:text" json:"address"`
	OpeningHours string    `gorm:"type:varchar(255)" json:"opening_hours"`
	ContactPhone string    `gorm:"type:varchar(32)" json:"contact_phone"`
	ContactEmail string    `gorm:"type:varchar(255)" json:"contact_email"`
	Amenities    string    `gorm:"type:text" json:"amenities"`
	LogoURL      string    `gorm:"type:varchar(512)" json:"logo_url"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
