package repositories

import (
	"fmt"
	"time"

	"visualcaption/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OTPRepository persists pending one-time passwords.
type OTPRepository interface {
	Save(entry *models.OTPCode) error
	Consume(email, code string, now time.Time) (bool, error)
}

// GORMOTPRepository keeps OTP codes in the otp_codes table.
type GORMOTPRepository struct {
	db *gorm.DB
}

// NewGORMOTPRepository creates a new GORMOTPRepository.
func NewGORMOTPRepository(db *gorm.DB) *GORMOTPRepository {
	return &GORMOTPRepository{db: db}
}

// Save inserts the code or replaces the pending one for the same email.
func (r *GORMOTPRepository) Save(entry *models.OTPCode) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at"}),
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to save otp for %s: %w", entry.Email, err)
	}
	return nil
}

// Consume deletes a matching, unexpired code and reports whether one was found.
// A single DELETE keeps a code from being used twice.
func (r *GORMOTPRepository) Consume(email, code string, now time.Time) (bool, error) {
	res := r.db.Where("email = ? AND code = ? AND expires_at > ?", email, code, now).Delete(&models.OTPCode{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to consume otp for %s: %w", email, res.Error)
	}
	return res.RowsAffected == 1, nil
}
