package models

import "time"

// PaymentRecord stores a verified subscription payment. The unique order id
// stops a captured signature from provisioning twice.
type PaymentRecord struct {
	ID                uint          `gorm:"primaryKey" json:"id"`
	UserID            uint          `gorm:"index;not null" json:"user_id"`
	User              User          `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	RazorpayOrderID   string        `gorm:"type:varchar(64);uniqueIndex;not null" json:"razorpay_order_id"`
	RazorpayPaymentID string        `gorm:"type:varchar(64);not null" json:"razorpay_payment_id"`
	Plan              Plan          `gorm:"type:varchar(20);not null" json:"plan"`
	Amount            float64       `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status            PaymentStatus `gorm:"type:varchar(20);not null" json:"status"`
	PaidAt            time.Time     `json:"paid_at"`
	CreatedAt         time.Time     `json:"created_at"`
}

// CheckoutOrder remembers what a gateway order was opened for, so the
// verified payment records the amount actually charged.
type CheckoutOrder struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RazorpayOrderID string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"razorpay_order_id"`
	Plan            Plan      `gorm:"type:varchar(20);not null" json:"plan"`
	AmountPaise     int64     `gorm:"not null" json:"amount_paise"`
	Email           string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt       time.Time `json:"created_at"`
}
