package services

import (
	"errors"

	"visualcaption/internal/models"
	"visualcaption/internal/repositories"
)

const feedbackNotFound = "Feedback not found"

// AdminService backs the administrative dashboard.
type AdminService struct {
	userRepo     repositories.UserRepository
	feedbackRepo repositories.FeedbackRepository
	uploadRepo   repositories.UploadRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	userRepo repositories.UserRepository,
	feedbackRepo repositories.FeedbackRepository,
	uploadRepo repositories.UploadRepository,
) *AdminService {
	return &AdminService{
		userRepo:     userRepo,
		feedbackRepo: feedbackRepo,
		uploadRepo:   uploadRepo,
	}
}

// ListUsers returns users matching filter.
func (s *AdminService) ListUsers(filter repositories.UserFilter) ([]models.User, error) {
	return s.userRepo.List(filter)
}

// ToggleUserStatus flips is_active and returns the new value.
func (s *AdminService) ToggleUserStatus(userID string) (bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return false, notFoundAs(err, userNotFound)
	}

	newStatus := !user.IsActive
	if err := s.userRepo.SetActive(userID, newStatus); err != nil {
		return false, notFoundAs(err, userNotFound)
	}
	return newStatus, nil
}

// DeleteUser hard-deletes a user and, through the foreign key, their feedback.
func (s *AdminService) DeleteUser(userID string) error {
	if err := s.userRepo.Delete(userID); err != nil {
		return notFoundAs(err, userNotFound)
	}
	return nil
}

// ListFeedback returns feedback matching filter.
func (s *AdminService) ListFeedback(filter repositories.FeedbackFilter) ([]models.Feedback, error) {
	return s.feedbackRepo.List(filter)
}

// RespondToFeedback records a reply without touching the resolved flag.
func (s *AdminService) RespondToFeedback(feedbackID, response string) error {
	if err := s.feedbackRepo.SetResponse(feedbackID, response); err != nil {
		return notFoundAs(err, feedbackNotFound)
	}
	return nil
}

// ResolveFeedback marks feedback resolved. It reports true when the row was
// already resolved, in which case nothing is written.
func (s *AdminService) ResolveFeedback(feedbackID string) (alreadyResolved bool, err error) {
	feedback, err := s.feedbackRepo.GetByID(feedbackID)
	if err != nil {
		return false, notFoundAs(err, feedbackNotFound)
	}
	if feedback.Resolved {
		return true, nil
	}
	if err := s.feedbackRepo.MarkResolved(feedbackID); err != nil {
		return false, notFoundAs(err, feedbackNotFound)
	}
	return false, nil
}

// Stats counts users, feedback and captions.
func (s *AdminService) Stats() (*models.Stats, error) {
	users, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	feedback, err := s.feedbackRepo.Count()
	if err != nil {
		return nil, err
	}
	captions, err := s.uploadRepo.Count()
	if err != nil {
		return nil, err
	}
	return &models.Stats{
		TotalUsers:    users,
		TotalFeedback: feedback,
		TotalCaptions: captions,
	}, nil
}

// notFoundAs turns a repository miss into a client-facing not found error.
func notFoundAs(err error, detail string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return newError(ErrNotFound, detail)
	}
	return err
}
