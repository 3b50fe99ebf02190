package models

import "time"

// MenuItem belongs to one owner and one of that owner's categories.
// IsVeg and IsNonVeg are stored independently.
type MenuItem struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	OwnerEmail  string       `gorm:"type:varchar(255);index;not null" json:"owner_email"`
	CategoryID  uint         `gorm:"index;not null" json:"category_id"`
	Category    MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string       `gorm:"type:varchar(512)" json:"image_url"`
	IsVeg       bool         `gorm:"not null" json:"is_veg"`
	IsNonVeg    bool         `gorm:"not null" json:"is_non_veg"`
	IsAvailable bool         `gorm:"not null" json:"is_available"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
