package models

import "time"

// OTPCode is a pending one-time password for an email address.
type OTPCode struct {
	Email     string    `gorm:"primaryKey;type:varchar(255)"`
	Code      string    `gorm:"type:varchar(12);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

func (OTPCode) TableName() string {
	return "otp_codes"
}
