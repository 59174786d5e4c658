package services

import (
	"errors"
	"fmt"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"
)

const userNotFound = "User not found"

// FeedbackService lets users leave and read their own feedback.
type FeedbackService struct {
	userRepo     repositories.UserRepository
	feedbackRepo repositories.FeedbackRepository
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(userRepo repositories.UserRepository, feedbackRepo repositories.FeedbackRepository) *FeedbackService {
	return &FeedbackService{userRepo: userRepo, feedbackRepo: feedbackRepo}
}

// CreateFeedback stores feedback for an existing user.
func (s *FeedbackService) CreateFeedback(userID, content string, rating int) (*models.FeedbackOut, error) {
	if rating < 1 || rating > 5 {
		return nil, newError(ErrBadRequest, "Rating must be between 1 and 5")
	}
	if err := s.requireUser(userID); err != nil {
		return nil, err
	}

	feedback := &models.Feedback{
		UserID:  userID,
		Content: content,
		Rating:  rating,
	}
	if err := s.feedbackRepo.Create(feedback); err != nil {
		if errors.Is(err, repositories.ErrConstraint) {
			return nil, wrapError(ErrBadRequest, "Failed to create feedback", err)
		}
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	out := feedback.Out()
	return &out, nil
}

// ListUserFeedback returns the user's feedback, newest first. An empty list is not an error.
func (s *FeedbackService) ListUserFeedback(userID string) ([]models.FeedbackOut, error) {
	if err := s.requireUser(userID); err != nil {
		return nil, err
	}

	rows, err := s.feedbackRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.FeedbackOut, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Out())
	}
	return out, nil
}

func (s *FeedbackService) requireUser(userID string) error {
	ok, err := s.userRepo.Exists(userID)
	if err != nil {
		return err
	}
	if !ok {
		return newError(ErrNotFound, userNotFound)
	}
	return nil
}
