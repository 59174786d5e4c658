package repositories

import (
	"errors"
	"fmt"
	"strings"

	"visualcaption/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackFilter narrows the admin feedback listing.
type FeedbackFilter struct {
	Search        string
	Rating        *int
	SortByCreated bool // newest first
	Limit         int  // zero means no limit
}

// FeedbackRepository defines the interface for feedback data access.
type FeedbackRepository interface {
	Create(feedback *models.Feedback) error
	GetByID(id string) (*models.Feedback, error)
	ListByUser(userID string) ([]models.Feedback, error)
	List(filter FeedbackFilter) ([]models.Feedback, error)
	SetResponse(id, response string) error
	MarkResolved(id string) error
	Count() (int64, error)
}

// GORMFeedbackRepository is a GORM implementation of FeedbackRepository.
type GORMFeedbackRepository struct {
	db *gorm.DB
}

// NewGORMFeedbackRepository creates a new GORMFeedbackRepository.
func NewGORMFeedbackRepository(db *gorm.DB) *GORMFeedbackRepository {
	return &GORMFeedbackRepository{db: db}
}

// Create inserts a feedback row. ID and created_at are assigned here.
func (r *GORMFeedbackRepository) Create(feedback *models.Feedback) error {
	if feedback.ID == "" {
		feedback.ID = uuid.New().String()
	}
	if err := r.db.Create(feedback).Error; err != nil {
		return fmt.Errorf("failed to create feedback: %w", translateWriteError(err))
	}
	return nil
}

// GetByID finds feedback by its ID.
func (r *GORMFeedbackRepository) GetByID(id string) (*models.Feedback, error) {
	var feedback models.Feedback
	if err := r.db.First(&feedback, "feedback_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("feedback with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get feedback %s: %w", id, err)
	}
	return &feedback, nil
}

// ListByUser returns the user's feedback, newest first.
func (r *GORMFeedbackRepository) ListByUser(userID string) ([]models.Feedback, error) {
	feedback := make([]models.Feedback, 0)
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&feedback).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback for user %s: %w", userID, err)
	}
	return feedback, nil
}

// List returns feedback matching filter.
func (r *GORMFeedbackRepository) List(filter FeedbackFilter) ([]models.Feedback, error) {
	q := r.db.Model(&models.Feedback{})
	if filter.Search != "" {
		q = q.Where("LOWER(content) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}
	if filter.Rating != nil {
		q = q.Where("rating = ?", *filter.Rating)
	}
	if filter.SortByCreated {
		q = q.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	feedback := make([]models.Feedback, 0)
	if err := q.Find(&feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	return feedback, nil
}

// SetResponse stores an admin reply. The resolved flag is left alone.
func (r *GORMFeedbackRepository) SetResponse(id, response string) error {
	res := r.db.Model(&models.Feedback{}).Where("feedback_id = ?", id).Update("response", response)
	if res.Error != nil {
		return fmt.Errorf("failed to respond to feedback %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("feedback with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// MarkResolved sets resolved, returning ErrNotFound when no row matched.
func (r *GORMFeedbackRepository) MarkResolved(id string) error {
	res := r.db.Model(&models.Feedback{}).Where("feedback_id = ?", id).Update("resolved", true)
	if res.Error != nil {
		return fmt.Errorf("failed to resolve feedback %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("feedback with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of feedback rows.
func (r *GORMFeedbackRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Feedback{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count feedback: %w", err)
	}
	return count, nil
}
