package models

import "time"

// Customer is a storefront visitor who left contact details before ordering.
type Customer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OwnerEmail string    `gorm:"type:varchar(255);index:idx_customer_owner_phone;not null" json:"owner_email"`
	Phone      string    `gorm:"type:varchar(32);index:idx_customer_owner_phone;not null" json:"phone"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
