package models

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// User is the restaurant owner account. FirstLogin starts true and is only
// ever cleared, by onboarding.
type User struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	Name           string        `gorm:"type:varchar(255);not null" json:"name"`
	Email          string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash   string        `gorm:"type:varchar(255);not null" json:"-"`
	Phone          string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"phone"`
	RestaurantName string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"restaurant_name"`
	Subdomain      string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"subdomain"`
	Plan           Plan          `gorm:"type:varchar(20);not null" json:"plan"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null" json:"payment_status"`
	FirstLogin     bool          `gorm:"not null" json:"first_login"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// PublicUser is the response shape of a user; it never carries credentials.
type PublicUser struct {
	ID             uint          `json:"id"`
	Name           string        `json:"name"`
	Email          string        `json:"email"`
	Phone          string        `json:"phone"`
	RestaurantName string        `json:"restaurant_name"`
	Subdomain      string        `json:"subdomain"`
	Plan           Plan          `json:"plan"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
	FirstLogin     bool          `json:"first_login"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Phone:          u.Phone,
		RestaurantName: u.RestaurantName,
		Subdomain:      u.Subdomain,
		Plan:           u.Plan,
		PaymentStatus:  u.PaymentStatus,
		FirstLogin:     u.FirstLogin,
	}
}
